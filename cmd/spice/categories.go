package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-spice-must-learn/internal/cli"
	"github.com/Veraticus/the-spice-must-learn/internal/common"
	"github.com/Veraticus/the-spice-must-learn/internal/engine"
	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage spending categories",
		Long:  `List, add, rename and delete the categories transactions are sorted into.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(renameCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())
	cmd.AddCommand(seedCategoriesCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			categories, err := a.store.GetCategories(cmd.Context(), a.userID)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				kind := "custom"
				if c.IsDefault {
					kind = "default"
				}
				rows = append(rows, []string{fmt.Sprint(c.ID), c.Icon + " " + c.Name, c.Color, kind})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"ID", "Name", "Color", "Kind"}, rows))
			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon, color string
	var force bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.TrimSpace(args[0])
			if !force {
				if err := guardAgainstTypo(cmd, a, name); err != nil {
					return err
				}
			}

			category := &model.Category{UserID: a.userID, Name: name, Icon: icon, Color: color}
			if err := a.store.CreateCategory(cmd.Context(), category); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("category %q already exists", name), nil)
				}
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created category %s %s (ID %d)", category.Icon, category.Name, category.ID)))
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", model.DefaultCategoryIcon, "category icon")
	cmd.Flags().StringVar(&color, "color", model.DefaultCategoryColor, "category color")
	cmd.Flags().BoolVar(&force, "force", false, "create even if a similarly named category exists")

	return cmd
}

// guardAgainstTypo refuses names that are a near miss of an existing category.
func guardAgainstTypo(cmd *cobra.Command, a *app, name string) error {
	categories, err := a.store.GetCategories(cmd.Context(), a.userID)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}

	match, ok := engine.SimilarCategory(name, names)
	switch {
	case !ok:
		return nil
	case strings.EqualFold(match, name):
		return common.NewUserError(fmt.Sprintf("category %q already exists", match), nil)
	default:
		return common.NewUserError(fmt.Sprintf("%q looks like the existing category %q; use --force to create it anyway", name, match), nil)
	}
}

func renameCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a category; its transactions follow",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := lookupCategory(cmd, a, args[0])
			if err != nil {
				return err
			}
			newName := strings.TrimSpace(args[1])
			if err := a.store.RenameCategory(cmd.Context(), a.userID, category.ID, newName); err != nil {
				if errors.Is(err, common.ErrDuplicateEntry) {
					return common.NewUserError(fmt.Sprintf("category %q already exists", newName), nil)
				}
				return fmt.Errorf("failed to rename category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Renamed %s to %s", category.Name, newName)))
			return nil
		},
	}
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a custom category; its transactions move to Other",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			category, err := lookupCategory(cmd, a, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteCategory(cmd.Context(), a.userID, category.ID); err != nil {
				if errors.Is(err, common.ErrDefaultCategory) {
					return common.NewUserError(fmt.Sprintf("%q is a default category and cannot be deleted", category.Name), nil)
				}
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted %s; its transactions are now %s", category.Name, model.CategoryOther)))
			return nil
		},
	}
}

func seedCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create any missing default categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := currentUserID()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			created, err := store.SeedDefaultCategories(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to seed categories: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created %d default categories", created)))
			return nil
		},
	}
}

// lookupCategory resolves a category by name, suggesting the closest match
// when it does not exist.
func lookupCategory(cmd *cobra.Command, a *app, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	category, err := a.store.GetCategoryByName(cmd.Context(), a.userID, name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	categories, listErr := a.store.GetCategories(cmd.Context(), a.userID)
	if listErr == nil {
		names := make([]string, 0, len(categories))
		for _, c := range categories {
			names = append(names, c.Name)
		}
		if match, ok := engine.SimilarCategory(name, names); ok {
			return nil, common.NewUserError(fmt.Sprintf("category %q not found, did you mean %q?", name, match), nil)
		}
	}
	return nil, common.NewUserError(fmt.Sprintf("category %q not found", name), nil)
}
