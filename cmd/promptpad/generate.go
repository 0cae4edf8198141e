package main

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"strconv"
	"strings"

	"promptpad/internal/composer"
	"promptpad/internal/workspace"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	copyOutput   bool
	htmlOutput   bool
	renderEngine string
	exportOut    string
	exportEntry  int
	settingKey   string
	settingModel string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Send the active tab's prompt and print the response",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			fmt.Fprintln(os.Stderr, "⏳ Generating...")
			res, err := svc.Generate(ctx)
			if err != nil {
				return err
			}
			printResponse(res.Entry.Response, res.HTML)
			return nil
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse the active tab's responses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List responses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			history, err := svc.History(ctx)
			if err != nil {
				return err
			}
			if len(history) == 0 {
				fmt.Println("No history yet. Generate some responses to see them here.")
				return nil
			}
			now := svc.Now()
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"#", "When", "Prompt"})
			table.SetAutoWrapText(false)
			for i, h := range history {
				table.Append([]string{strconv.Itoa(i + 1), composer.FormatRelative(h.Timestamp, now), composer.Preview(h.Prompt)})
			}
			table.Render()
			return nil
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <n>",
	Short: "Show the n-th response (1 = newest) with its prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid history number %q: %w", args[0], err)
		}
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			entry, err := svc.Entry(ctx, n)
			if err != nil {
				return err
			}
			html, err := svc.Render(entry.Response)
			if err != nil {
				return err
			}
			fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("Prompt:"))
			fmt.Println(entry.Prompt)
			fmt.Println(color.New(color.FgCyan, color.Bold).Sprint("Response:"))
			printResponse(entry.Response, html)
			return nil
		})
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render Markdown from a file or stdin to HTML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		text, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		engine := appCfg.Render.Engine
		if renderEngine != "" {
			engine = renderEngine
		}
		r, err := composer.NewRenderer(engine)
		if err != nil {
			return err
		}
		html, err := r.Render(string(text))
		if err != nil {
			return err
		}
		fmt.Println(html)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a response as a standalone HTML page",
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
			entry, err := svc.Entry(ctx, exportEntry)
			if err != nil {
				return err
			}
			body, err := svc.Render(entry.Response)
			if err != nil {
				return err
			}

			page := composer.Page{
				Title:  tab.Name,
				Prompt: entry.Prompt,
				Body:   template.HTML(body),
				Dark:   st.DarkMode,
			}
			if exportOut == "" || exportOut == "-" {
				return composer.WritePage(os.Stdout, page)
			}
			if err := composer.WritePageFile(exportOut, page); err != nil {
				return err
			}
			success("Wrote %s", exportOut)
			return nil
		})
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the API key and model",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			st, err := svc.State(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("API key:   %s\n", maskKey(st.APIKey))
			fmt.Printf("Model:     %s\n", st.Model)
			fmt.Printf("Dark mode: %t\n", st.DarkMode)
			fmt.Printf("Provider:  %s\n", appCfg.AI.Provider)
			fmt.Printf("Renderer:  %s\n", appCfg.Render.Engine)
			return nil
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the API key and/or model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			_, err := svc.Update(ctx, func(st *workspace.State) error {
				if cmd.Flags().Changed("api-key") {
					st.APIKey = strings.TrimSpace(settingKey)
				}
				if cmd.Flags().Changed("model") {
					st.Model = strings.TrimSpace(settingModel)
					st.Normalize()
				}
				return nil
			})
			if err != nil {
				return err
			}
			success("Settings saved")
			return nil
		})
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Toggle dark mode for exported pages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *composer.Service) error {
			st, err := svc.Update(ctx, func(st *workspace.State) error {
				st.DarkMode = !st.DarkMode
				return nil
			})
			if err != nil {
				return err
			}
			mode := "light"
			if st.DarkMode {
				mode = "dark"
			}
			success("Theme set to %s", mode)
			return nil
		})
	},
}

func printResponse(raw, html string) {
	if htmlOutput {
		fmt.Println(html)
	} else {
		fmt.Println(raw)
	}
	if copyOutput {
		if err := clipboard.WriteAll(raw); err != nil {
			log.Warn().Err(err).Msg("could not copy response to clipboard")
			return
		}
		success("Copied to clipboard")
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func init() {
	for _, c := range []*cobra.Command{generateCmd, historyShowCmd} {
		c.Flags().BoolVar(&copyOutput, "copy", false, "Copy the raw response to the clipboard")
		c.Flags().BoolVar(&htmlOutput, "html", false, "Print the rendered HTML instead of the raw text")
	}
	historyCmd.AddCommand(historyListCmd, historyShowCmd)

	renderCmd.Flags().StringVarP(&renderEngine, "engine", "e", "", "Renderer: quirky or commonmark (default from config)")

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "-", "Output file, - for stdout")
	exportCmd.Flags().IntVarP(&exportEntry, "entry", "n", 1, "History entry to export (1 = newest)")

	settingsSetCmd.Flags().StringVar(&settingKey, "api-key", "", "Gemini API key")
	settingsSetCmd.Flags().StringVar(&settingModel, "model", "", "Model name, e.g. gemini-2.5-flash")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd)
}
