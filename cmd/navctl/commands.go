// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/transfer"
)

func newMenusCmd(a *app) *cobra.Command {
	var church string
	cmd := &cobra.Command{
		Use:   "menus",
		Short: "List menus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			menus, err := c.ListMenus(cmd.Context(), church)
			if err != nil {
				return err
			}
			renderMenus(cmd.OutOrStdout(), menus)
			return nil
		},
	}
	cmd.Flags().StringVar(&church, "church", "", "Only list menus of this church")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show MENU_ID",
		Short: "Show a menu's item tree, hidden items included",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			menu, err := c.GetMenu(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return renderJSON(cmd.OutOrStdout(), menu)
			}
			renderTree(cmd.OutOrStdout(), menu)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the menu as JSON")
	return cmd
}

// itemFlags are the editable item fields. Only flags given on the command
// line are applied, so an edit leaves every other field alone.
type itemFlags struct {
	label       string
	href        string
	description string
	icon        string
	group       string
	newTab      bool
	external    bool
	hidden      bool
	overview    bool

	featuredImage       string
	featuredTitle       string
	featuredDescription string
	featuredHref        string
}

func (f *itemFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.label, "label", "", "Display label")
	fs.StringVar(&f.href, "href", "", "Link target; empty makes the item a plain heading")
	fs.StringVar(&f.description, "description", "", "Secondary text shown under the label")
	fs.StringVar(&f.icon, "icon", "", "Icon name, e.g. calendar or map-pin")
	fs.StringVar(&f.group, "group", "", "Dropdown group heading (children only)")
	fs.BoolVar(&f.newTab, "new-tab", false, "Open the link in a new tab")
	fs.BoolVar(&f.external, "external", false, "Mark the link as leaving the site")
	fs.BoolVar(&f.hidden, "hidden", false, "Hide the item from the public navigation")
	fs.StringVar(&f.featuredImage, "featured-image", "", "Featured card image URL")
	fs.StringVar(&f.featuredTitle, "featured-title", "", "Featured card or overview link title")
	fs.StringVar(&f.featuredDescription, "featured-description", "", "Featured card or overview link text")
	fs.StringVar(&f.featuredHref, "featured-href", "", "Featured card or overview link target")
	fs.BoolVar(&f.overview, "overview", false, "Make the child the dropdown's overview link")
}

func (f *itemFlags) apply(cmd *cobra.Command, it *model.MenuItem) {
	changed := cmd.Flags().Changed
	setString := func(name, value string, dst **string) {
		if changed(name) {
			*dst = model.StringPtr(strings.TrimSpace(value))
		}
	}

	if changed("label") {
		it.Label = f.label
	}
	setString("href", f.href, &it.Href)
	setString("description", f.description, &it.Description)
	setString("icon", f.icon, &it.IconName)
	setString("group", f.group, &it.GroupLabel)
	setString("featured-image", f.featuredImage, &it.FeaturedImage)
	setString("featured-title", f.featuredTitle, &it.FeaturedTitle)
	setString("featured-description", f.featuredDescription, &it.FeaturedDescription)
	setString("featured-href", f.featuredHref, &it.FeaturedHref)
	if changed("new-tab") {
		it.OpenInNewTab = f.newTab
	}
	if changed("external") {
		it.IsExternal = f.external
	}
	if changed("hidden") {
		it.IsVisible = !f.hidden
	}
	if changed("overview") {
		it.Kind = model.KindRegular
		if f.overview {
			it.Kind = model.KindOverviewLink
		}
	}
}

func newAddCmd(a *app) *cobra.Command {
	var (
		flags  itemFlags
		parent string
	)
	cmd := &cobra.Command{
		Use:   "add MENU_ID --label LABEL",
		Short: "Add an item, at the end of its sibling list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.BeginAdd(parent); err != nil {
				return err
			}
			if err := s.UpdateDraft(func(it *model.MenuItem) { flags.apply(cmd, it) }); err != nil {
				return err
			}
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "added %q\n", strings.TrimSpace(flags.label))
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&parent, "parent", "", "Top-level item to add the child under")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags itemFlags
	cmd := &cobra.Command{
		Use:   "edit MENU_ID ITEM_ID",
		Short: "Change fields of an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.BeginEdit(args[1]); err != nil {
				return err
			}
			if err := s.UpdateDraft(func(it *model.MenuItem) { flags.apply(cmd, it) }); err != nil {
				return err
			}
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "updated %s\n", args[1])
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete MENU_ID ITEM_ID",
		Short: "Delete an item and its children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.RequestDelete(args[1]); err != nil {
				return err
			}
			if !yes {
				if !confirm(cmd, describeDelete(s.Snapshot().Menu, args[1])) {
					printf(cmd.OutOrStdout(), "cancelled\n")
					return s.CancelDelete()
				}
			}
			if err := s.ConfirmDelete(cmd.Context()); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "deleted %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func describeDelete(menu model.Menu, itemID string) string {
	for _, top := range menu.Items {
		if top.ID == itemID && len(top.Children) > 0 {
			return fmt.Sprintf("Delete %q and its %d children?", top.Label, len(top.Children))
		}
	}
	item, _ := menu.FindItem(itemID)
	return fmt.Sprintf("Delete %q?", item.Label)
}

// confirm asks a yes/no question on the command's input. Anything but an
// explicit yes, end of input included, is a no.
func confirm(cmd *cobra.Command, question string) bool {
	printf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func newMoveCmd(a *app) *cobra.Command {
	var (
		up, down bool
		to       int
	)
	cmd := &cobra.Command{
		Use:   "move MENU_ID ITEM_ID (--up | --down | --to INDEX)",
		Short: "Move a top-level item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, itemID := cmd.Context(), args[1]
			switch {
			case up:
				err = s.MoveUp(ctx, itemID)
			case down:
				err = s.MoveDown(ctx, itemID)
			default:
				err = s.MoveTo(ctx, itemID, to-1)
			}
			if err != nil {
				return err
			}
			renderTree(cmd.OutOrStdout(), s.Snapshot().Menu)
			return nil
		},
	}
	cmd.Flags().BoolVar(&up, "up", false, "Move one place up")
	cmd.Flags().BoolVar(&down, "down", false, "Move one place down")
	cmd.Flags().IntVar(&to, "to", 0, "Move to this 1-based position")
	cmd.MarkFlagsMutuallyExclusive("up", "down", "to")
	cmd.MarkFlagsOneRequired("up", "down", "to")
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle MENU_ID ITEM_ID",
		Short: "Show or hide an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ToggleVisibility(cmd.Context(), args[1]); err != nil {
				return err
			}
			item, _ := s.Snapshot().Menu.FindItem(args[1])
			state := "visible"
			if !item.IsVisible {
				state = "hidden"
			}
			printf(cmd.OutOrStdout(), "%q is now %s\n", item.Label, state)
			return nil
		},
	}
}

func newDropdownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dropdown MENU_ID ITEM_ID",
		Short: "Print the dropdown derived from a top-level item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			data, err := c.Dropdown(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return renderJSON(cmd.OutOrStdout(), data)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export MENU_ID",
		Short: "Write a menu's items as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c, err := a.client()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}
			return transfer.NewExporter(c, a.logger).ExportToWriter(cmd.Context(), args[0], w)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var opts transfer.ImportOptions
	cmd := &cobra.Command{
		Use:   "import MENU_ID FILE",
		Short: "Create items from a YAML export",
		Long: `Create the items of a YAML export in a menu. Items are appended unless
--replace is given, which deletes the menu's current items first. Use "-"
to read from stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}

			in := cmd.InOrStdin()
			if args[1] != "-" {
				f, err := os.Open(args[1])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				in = f
			}
			doc, err := transfer.Decode(in)
			if err != nil {
				return err
			}

			res, err := transfer.NewImporter(c, a.logger).Import(cmd.Context(), doc, args[0], opts)
			out := cmd.OutOrStdout()
			for _, verr := range res.Errors {
				printf(out, "  %s\n", verr.Error())
			}
			if err != nil {
				if errors.Is(err, transfer.ErrInvalidDocument) {
					return fmt.Errorf("%d problems in %s: %w", len(res.Errors), args[1], err)
				}
				return fmt.Errorf("import stopped after %d items: %w", res.Created, err)
			}

			verb := "created"
			if res.DryRun {
				verb = "would create"
			}
			printf(out, "%s %d items", verb, res.Created)
			if opts.Replace {
				printf(out, ", replacing %d", res.Deleted)
			}
			printf(out, "\n")
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.Replace, "replace", false, "Delete the menu's items first")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate and count without writing")
	return cmd
}

func newEventsCmd(a *app) *cobra.Command {
	var (
		level string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show recent warnings and errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			events, err := c.Events(cmd.Context(), level, limit)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				printf(cmd.OutOrStdout(), "no events\n")
				return nil
			}
			rows := make([][]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, []string{e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Level, e.Category, e.Message})
			}
			renderTable(cmd.OutOrStdout(), []string{"TIME", "LEVEL", "CATEGORY", "MESSAGE"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "Only events of this level (warning or error)")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of events")
	return cmd
}
