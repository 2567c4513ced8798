package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"storyline/internal/config"
	"storyline/internal/db"
	"storyline/internal/health"
	"storyline/internal/migrate"
	"storyline/internal/repo"
	"storyline/internal/server"
	"storyline/internal/usecase"
	storylinesdk "storyline/sdk/go"
)

var rootCmd = &cobra.Command{
	Use:   "sl",
	Short: "Storyline CLI",
	Long: `Storyline tracks stories and the tasks inside them.
- Story: a named list of work, paged by a monotonic sequence number.
- Task: one item inside a story, either incomplete or complete.
Run 'sl serve' for the HTTP API, or point the story/task commands at a
running server with --server.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("STORYLINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("config", "", "path to storyline.yml")
	rootCmd.PersistentFlags().String("server", "http://127.0.0.1:8080", "server base URL for client commands")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func registerCommands() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(storyCmd())
	rootCmd.AddCommand(taskCmd())
	rootCmd.AddCommand(healthCmd())
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("config"))
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if basePath != "" {
				cfg.BasePath = basePath
			}
			applyLogLevel(cfg.LogLevel)

			conn, err := db.Open(db.Config{Path: cfg.DBPath, MaxConns: cfg.DBMaxConns})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			checker := health.New(conn, cfg.HealthInterval)
			go checker.Run(ctx)

			handler, err := server.New(server.Config{
				UseCases: usecase.New(repo.New(conn)),
				Health:   checker,
				BasePath: cfg.BasePath,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: cfg.ListenAddr, Handler: handler}
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}()
			logrus.Infof("serving Storyline API on http://%s%s (OpenAPI at /openapi.json, docs at /docs)", cfg.ListenAddr, cfg.BasePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&basePath, "base-path", "", "API base path (overrides config)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("config"))
			if err != nil {
				return err
			}
			applyLogLevel(cfg.LogLevel)
			conn, err := db.Open(db.Config{Path: cfg.DBPath, MaxConns: cfg.DBMaxConns})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			logrus.Infof("schema up to date at %s", cfg.DBPath)
			return nil
		},
	}
}

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().Health(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func storyCmd() *cobra.Command {
	story := &cobra.Command{Use: "story", Short: "Manage stories"}
	story.AddCommand(storyListCmd())
	story.AddCommand(storyCreateCmd())
	story.AddCommand(storyUpdateCmd())
	story.AddCommand(storyDeleteCmd())
	return story
}

func storyListCmd() *cobra.Command {
	var cursor, limit int64
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stories",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client()
			var stories []storylinesdk.Story
			next := cursor
			for {
				page, err := c.ListStories(cmd.Context(), next, limit)
				if err != nil {
					return err
				}
				stories = append(stories, page.Stories...)
				next = page.NextCursor
				if next == 0 || !all {
					break
				}
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"next_cursor": next, "stories": stories})
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Created", "Updated"})
			for _, s := range stories {
				tw.AppendRow(table.Row{s.StoryID, s.Name, fmtTime(s.CreatedAt), fmtTime(s.UpdatedAt)})
			}
			tw.Render()
			if next != 0 {
				fmt.Printf("next cursor: %d\n", next)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&cursor, "cursor", 0, "page cursor")
	cmd.Flags().Int64Var(&limit, "limit", 0, "page size")
	cmd.Flags().BoolVar(&all, "all", false, "follow cursors until exhausted")
	return cmd
}

func storyCreateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a story",
		RunE: func(cmd *cobra.Command, args []string) error {
			story, err := client().CreateStory(cmd.Context(), name)
			if err != nil {
				return err
			}
			return printJSON(story)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "story name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func storyUpdateCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "update <story-id>",
		Short: "Rename a story",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			story, err := client().UpdateStory(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			return printJSON(story)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new story name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func storyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <story-id>",
		Short: "Delete a story and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().DeleteStory(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func taskCmd() *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Manage tasks"}
	task.AddCommand(taskListCmd())
	task.AddCommand(taskCreateCmd())
	task.AddCommand(taskUpdateCmd())
	task.AddCommand(taskDeleteCmd())
	return task
}

func taskListCmd() *cobra.Command {
	var storyID string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the tasks of a story",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := client().ListTasks(cmd.Context(), storyID)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(tasks)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Status", "Created"})
			for _, t := range tasks {
				tw.AppendRow(table.Row{t.TaskID, t.Name, t.Status, fmtTime(t.CreatedAt)})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&storyID, "story", "", "story id")
	_ = cmd.MarkFlagRequired("story")
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var storyID, name, status string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a task to a story",
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := client().CreateTask(cmd.Context(), storyID, name, status)
			if err != nil {
				return err
			}
			return printJSON(task)
		},
	}
	cmd.Flags().StringVar(&storyID, "story", "", "story id")
	cmd.Flags().StringVar(&name, "name", "", "task name")
	cmd.Flags().StringVar(&status, "status", "", "task status (incomplete or complete)")
	_ = cmd.MarkFlagRequired("story")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func taskUpdateCmd() *cobra.Command {
	var name, status string
	cmd := &cobra.Command{
		Use:   "update <task-id>",
		Short: "Update a task",
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := client().UpdateTask(cmd.Context(), args[0], optionalString(name), status)
			if err != nil {
				return err
			}
			return printJSON(task)
		},
		Args: cobra.ExactArgs(1),
	}
	cmd.Flags().StringVar(&name, "name", "", "new task name (omit to keep)")
	cmd.Flags().StringVar(&status, "status", "", "task status (incomplete or complete)")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client().DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

// --- helpers ---

func client() *storylinesdk.Client {
	return storylinesdk.New(viper.GetString("server"))
}

func applyLogLevel(level string) {
	if v := viper.GetString("log-level"); v != "" {
		level = v
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtTime(ts storylinesdk.Timestamp) string {
	return ts.Time().Format(time.RFC3339)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
