package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/prompthub/prompthub/internal/client"
	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultAPI = "http://localhost:5000"

type app struct {
	api     string
	timeout time.Duration
	client  *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "promptctl",
		Short:         "Browse, search and share prompts on a prompthub server",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.api == "" {
				a.api = defaultAPI
			}
			logger.Debugf("promptctl: api=%s", a.api)
			a.client = client.New(a.api)
		},
	}
	root.PersistentFlags().StringVar(&a.api, "api", os.Getenv("PROMPTHUB_API"), "API base URL (env PROMPTHUB_API)")
	root.PersistentFlags().DurationVar(&a.timeout, "timeout", 15*time.Second, "per-command timeout")

	root.AddCommand(
		a.feedCmd(),
		a.searchCmd(),
		a.showCmd(),
		a.createCmd(),
		a.upvoteCmd(),
		a.deleteCmd(),
		a.usernameCmd(),
		a.exportCmd(),
	)
	return root
}

func (a *app) ctx(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.timeout)
}

func printPrompts(w io.Writer, list []*models.Prompt) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no prompts")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tTAGS\tUPVOTES\tVIEWS")
	for _, p := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			p.ID, p.Title, p.DisplayName(), strings.Join(p.Tags, ","), p.Upvotes, client.FormatViews(p.Views))
	}
	tw.Flush()
}

func (a *app) feedCmd() *cobra.Command {
	var userID, filter string
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List prompts newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			var (
				list []*models.Prompt
				err  error
			)
			if userID != "" {
				list, err = a.client.ListUserPrompts(ctx, userID, filter)
			} else {
				list, err = a.client.ListPrompts(ctx, "", filter)
			}
			if err != nil {
				return err
			}
			printPrompts(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "only prompts of this user id")
	cmd.Flags().StringVar(&filter, "filter", "", "visibility: public or private")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var interactive bool
	var delay time.Duration
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: `Search the public feed: [tag], user:name, collective:"name", "phrase" or text`,
		Long: `Search fetches the public feed once and filters it locally.
With -i every line read from stdin is a new query; bursts of input are
debounced so only the last query of a burst is evaluated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			feed, err := client.LoadFeed(ctx, a.client)
			cancel()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !interactive {
				printPrompts(out, feed.Search(strings.Join(args, " ")))
				return nil
			}
			return interactiveSearch(cmd.InOrStdin(), out, feed, delay)
		},
	}
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "read queries from stdin")
	cmd.Flags().DurationVar(&delay, "debounce", client.DefaultSearchDelay, "quiet period before a query runs")
	return cmd
}

func interactiveSearch(in io.Reader, out io.Writer, feed *client.Feed, delay time.Duration) error {
	var mu sync.Mutex
	d := client.NewDebouncer(delay)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		q := sc.Text()
		d.Trigger(func() {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(out, "> %s\n", q)
			printPrompts(out, feed.Search(q))
		})
	}
	d.Flush()
	return sc.Err()
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one prompt (counts as a view)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			p, err := a.client.GetPrompt(ctx, args[0])
			if err != nil {
				if client.IsNotFound(err) {
					return fmt.Errorf("prompt %s not found", args[0])
				}
				return err
			}
			w := cmd.OutOrStdout()
			visibility := "public"
			if !p.IsPublic {
				visibility = "private"
			}
			fmt.Fprintf(w, "%s\n\n%s\n\n", p.Title, p.Content)
			fmt.Fprintf(w, "author:   %s\n", p.DisplayName())
			fmt.Fprintf(w, "tags:     %s\n", strings.Join(p.Tags, ", "))
			fmt.Fprintf(w, "category: %s\n", p.Category)
			fmt.Fprintf(w, "models:   %s\n", strings.Join(p.Models, ", "))
			fmt.Fprintf(w, "%s · %d upvotes · %s views · %s\n", visibility, p.Upvotes, client.FormatViews(p.Views), p.CreatedAt.Format(time.RFC822))
			return nil
		},
	}
}

func (a *app) createCmd() *cobra.Command {
	var (
		in      client.NewPrompt
		private bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a prompt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if private {
				public := false
				in.IsPublic = &public
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			p, err := a.client.CreatePrompt(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.UserID, "user", "", "author user id (required)")
	f.StringVar(&in.Author, "author", "", "display name")
	f.StringVar(&in.Title, "title", "", "title (required)")
	f.StringVar(&in.Content, "content", "", "prompt text (required)")
	f.StringSliceVar(&in.Tags, "tag", nil, "tag, repeatable")
	f.StringVar(&in.Category, "category", "", "category")
	f.StringSliceVar(&in.Models, "model", nil, "target model, repeatable")
	f.BoolVar(&private, "private", false, "only visible to the author")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func (a *app) upvoteCmd() *cobra.Command {
	var remove bool
	cmd := &cobra.Command{
		Use:   "upvote <id>",
		Short: "Upvote a prompt, or take an upvote back with --remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "upvote"
			if remove {
				action = "remove"
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			n, err := a.client.Upvote(ctx, args[0], action)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d upvotes\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "remove an upvote")
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := a.client.DeletePrompt(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) usernameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "username <external-id> <username>",
		Short: "Choose a username",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			u, err := a.client.UpdateUsername(ctx, args[0], args[1])
			if err != nil {
				if client.IsConflict(err) {
					return fmt.Errorf("username %q is already taken", args[1])
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "username set to %s\n", u.Username)
			return nil
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <external-id>",
		Short: "Export all of a user's prompts and print a download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			res, err := a.client.ExportPrompts(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d prompts to %s\n%s\n", res.Count, res.Key, res.URL)
			return nil
		},
	}
}
