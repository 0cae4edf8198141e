package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"promptpad/internal/composer"
	"promptpad/internal/workspace"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	forceDelete  bool
	blockHeading string
	blockContent string
)

var tabCmd = &cobra.Command{
	Use:   "tab",
	Short: "Manage prompt tabs",
}

var tabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tabs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			st, err := svc.State(ctx)
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"", "ID", "Name", "Blocks", "History"})
			table.SetAutoWrapText(false)
			for _, tab := range st.Tabs {
				marker := ""
				if tab.ID == st.ActiveTabID {
					marker = "*"
				}
				table.Append([]string{marker, tab.ID, tab.Name, strconv.Itoa(len(tab.Blocks)), strconv.Itoa(len(tab.History))})
			}
			table.Render()
			return nil
		})
	},
}

var tabAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a tab and switch to it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			var tab *workspace.Tab
			if _, err := svc.Update(ctx, func(st *workspace.State) error {
				tab = st.AddTab()
				return nil
			}); err != nil {
				return err
			}
			success("Added %s (%s)", tab.Name, tab.ID)
			return nil
		})
	},
}

var tabSwitchCmd = &cobra.Command{
	Use:   "switch <id>",
	Short: "Make a tab active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			if _, err := svc.Update(ctx, func(st *workspace.State) error {
				return st.SwitchTab(args[0])
			}); err != nil {
				return err
			}
			success("Switched to %s", args[0])
			return nil
		})
	},
}

var tabRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a tab",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			if _, err := svc.Update(ctx, func(st *workspace.State) error {
				return st.RenameTab(args[0], args[1])
			}); err != nil {
				return err
			}
			success("Renamed %s", args[0])
			return nil
		})
	},
}

var tabDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a tab with its blocks and history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			_, err := svc.Update(ctx, func(st *workspace.State) error {
				tab := st.FindTab(args[0])
				if tab != nil && len(st.Tabs) > 1 && tab.HasUserData() && !forceDelete {
					return fmt.Errorf("tab %q has blocks or history; re-run with --force to delete it", tab.Name)
				}
				return st.DeleteTab(args[0])
			})
			if err != nil {
				return err
			}
			success("Deleted %s", args[0])
			return nil
		})
	},
}

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Manage the blocks of the active tab",
}

var blockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List blocks in prompt order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			st, err := svc.State(ctx)
			if err != nil {
				return err
			}
			tab, err := st.ActiveTab()
			if err != nil {
				return err
			}
			fmt.Println(color.New(color.FgCyan, color.Bold).Sprint(tab.Name))
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "ID", "Heading", "Content"})
			for i, b := range tab.Blocks {
				table.Append([]string{strconv.Itoa(i), b.ID, b.Heading, composer.Preview(b.Content)})
			}
			table.Render()
			return nil
		})
	},
}

var blockAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a block to the active tab",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			var block workspace.Block
			_, err := svc.Update(ctx, func(st *workspace.State) error {
				b, err := st.AddBlock()
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("heading") {
					b.Heading = blockHeading
					if err := st.UpdateBlock(b.ID, "heading", blockHeading); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("content") {
					b.Content = blockContent
					if err := st.UpdateBlock(b.ID, "content", blockContent); err != nil {
						return err
					}
				}
				block = b
				return nil
			})
			if err != nil {
				return err
			}
			success("Added block %s", block.ID)
			return nil
		})
	},
}

var blockSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Change a block's heading or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("heading") && !cmd.Flags().Changed("content") {
			return fmt.Errorf("nothing to change: pass --heading and/or --content")
		}
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			_, err := svc.Update(ctx, func(st *workspace.State) error {
				if cmd.Flags().Changed("heading") {
					if err := st.UpdateBlock(args[0], "heading", blockHeading); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("content") {
					return st.UpdateBlock(args[0], "content", blockContent)
				}
				return nil
			})
			if err != nil {
				return err
			}
			success("Updated block %s", args[0])
			return nil
		})
	},
}

var blockDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			if _, err := svc.Update(ctx, func(st *workspace.State) error {
				return st.DeleteBlock(args[0])
			}); err != nil {
				return err
			}
			success("Deleted block %s", args[0])
			return nil
		})
	},
}

var blockMoveCmd = &cobra.Command{
	Use:   "move <from> <to>",
	Short: "Move the block at index <from> to index <to>",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid source index %q: %w", args[0], err)
		}
		to, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid target index %q: %w", args[1], err)
		}
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			if _, err := svc.Update(ctx, func(st *workspace.State) error {
				return st.MoveBlock(from, to)
			}); err != nil {
				return err
			}
			success("Moved block %d -> %d", from, to)
			return nil
		})
	},
}

func init() {
	tabDeleteCmd.Flags().BoolVarP(&forceDelete, "force", "f", false, "Delete even if the tab has blocks or history")
	tabCmd.AddCommand(tabListCmd, tabAddCmd, tabSwitchCmd, tabRenameCmd, tabDeleteCmd)

	for _, c := range []*cobra.Command{blockAddCmd, blockSetCmd} {
		c.Flags().StringVar(&blockHeading, "heading", "", "Block heading")
		c.Flags().StringVar(&blockContent, "content", "", "Block content")
	}
	blockCmd.AddCommand(blockListCmd, blockAddCmd, blockSetCmd, blockDeleteCmd, blockMoveCmd)
}
