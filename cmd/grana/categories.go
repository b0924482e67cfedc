package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/cli"
	"github.com/grana-app/grana/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
	}
	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())
	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories, system and custom",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			custom, err := store.ListCustomCategories(ctx)
			if err != nil {
				return err
			}
			merged := category.Merge(category.Taxonomy(), custom)

			fmt.Println(cli.FormatTitle("Categories"))
			for _, cat := range merged {
				origin := ""
				if cat.IsCustom {
					origin = cli.SubtleStyle.Render(" (custom)")
				}
				fmt.Printf("%s %-20s %s%s\n", cat.Icon, cat.Name, cat.Type, origin)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			typeFlag, _ := cmd.Flags().GetString("type")
			icon, _ := cmd.Flags().GetString("icon")
			color, _ := cmd.Flags().GetString("color")

			catType := model.TypeExpense
			if typeFlag == "income" {
				catType = model.TypeIncome
			}

			cat := &model.Category{Name: args[0], Icon: icon, Color: color, Type: catType}
			if err := store.CreateCustomCategory(ctx, cat); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %s", cat.Name)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "expense", "income or expense")
	cmd.Flags().String("icon", "", "display icon")
	cmd.Flags().String("color", "", "display color")

	return cmd
}
