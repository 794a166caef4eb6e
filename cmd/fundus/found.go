package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/fundus/internal/config"
	"github.com/verte-zerg/fundus/internal/labels"
	"github.com/verte-zerg/fundus/internal/model"
	"github.com/verte-zerg/fundus/internal/registry"
	"github.com/verte-zerg/fundus/internal/stats"
	"github.com/verte-zerg/fundus/internal/store"
)

var (
	foundCategory    string
	foundLocation    string
	foundDescription string
	foundImage       string
	foundPassword    string
)

func newFoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "found",
		Short: "Manage the lost & found register",
	}
	cmd.AddCommand(newFoundAddCmd())
	cmd.AddCommand(newFoundSearchCmd())
	cmd.AddCommand(newFoundRemoveCmd())
	cmd.AddCommand(newFoundCategoriesCmd())
	return cmd
}

func newFoundAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Report a found item",
		Args:  cobra.NoArgs,
		RunE:  runFoundAddCmd,
	}
	cmd.Flags().StringVar(&foundCategory, "category", "", "item category (see: fundus found categories)")
	cmd.Flags().StringVar(&foundLocation, "location", "", "where the item was found")
	cmd.Flags().StringVar(&foundDescription, "description", "", "short description")
	cmd.Flags().StringVar(&foundImage, "image", "", "photo to attach (jpg or png)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func runFoundAddCmd(cmd *cobra.Command, _ []string) error {
	return withRegistry(func(svc *registry.Service) error {
		item, err := svc.Report(context.Background(), registry.Report{
			Category:    foundCategory,
			Location:    foundLocation,
			Description: foundDescription,
			ImagePath:   foundImage,
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved item #%d (%s)\n", item.ID, item.Category)
		return err
	})
}

func newFoundSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "List found items, newest first",
		Args:  cobra.NoArgs,
		RunE:  runFoundSearchCmd,
	}
	cmd.Flags().StringVar(&foundCategory, "category", "", "only show this category")
	return cmd
}

func runFoundSearchCmd(cmd *cobra.Command, _ []string) error {
	return withRegistry(func(svc *registry.Service) error {
		items, err := svc.Search(context.Background(), foundCategory)
		if err != nil {
			return err
		}
		return stats.RenderItems(cmd.OutOrStdout(), foundCategory, items, time.Now())
	})
}

func newFoundRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a picked-up item (admin)",
		Args:  cobra.ExactArgs(1),
		RunE:  runFoundRemoveCmd,
	}
	cmd.Flags().StringVar(&foundPassword, "password", "", "admin password (prompted when omitted)")
	return cmd
}

func runFoundRemoveCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	return withRegistry(func(svc *registry.Service) error {
		password := foundPassword
		if !cmd.Flags().Changed("password") && term.IsTerminal(int(os.Stdin.Fd())) {
			prompted, perr := promptPassword()
			if perr != nil {
				return perr
			}
			password = prompted
		}
		item, err := svc.Remove(context.Background(), id, password)
		if err != nil {
			if errors.Is(err, registry.ErrNoAdminPassword) {
				return fmt.Errorf("cannot remove item #%d: %w (set admin-password under [registry] via: fundus config)", id, err)
			}
			if errors.Is(err, registry.ErrForbidden) {
				return fmt.Errorf("cannot remove item #%d: %w", id, err)
			}
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed item #%d (%s)\n", item.ID, item.Category)
		return err
	})
}

func newFoundCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories and item counts",
		Args:  cobra.NoArgs,
		RunE:  runFoundCategoriesCmd,
	}
}

func runFoundCategoriesCmd(cmd *cobra.Command, _ []string) error {
	return withRegistry(func(svc *registry.Service) error {
		counts, err := svc.Counts(context.Background())
		if err != nil {
			return err
		}
		return stats.RenderCategoryCounts(cmd.OutOrStdout(), counts)
	})
}

func withRegistry(fn func(*registry.Service) error) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	regCfg := registryConfig(fileCfg.Registry)
	categories, err := labels.LoadOrDefault(regCfg.LabelsPath)
	if err != nil {
		return fmt.Errorf("failed to load labels: %w", err)
	}

	logger := openLogger()
	defer syncLogger(logger)

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer closeStore(st)

	svc := registry.NewService(st, categories, regCfg, logger.With(zap.String("component", "registry")))
	return fn(svc)
}

func registryConfig(fc config.RegistryConfig) model.RegistryConfig {
	cfg := model.RegistryConfig{
		LabelsPath: config.DefaultLabelsPath(),
		UploadsDir: config.DefaultUploadsDir(),
	}
	if fc.Labels != nil {
		cfg.LabelsPath = *fc.Labels
	}
	if fc.Uploads != nil {
		cfg.UploadsDir = *fc.Uploads
	}
	if fc.AdminPassword != nil {
		cfg.AdminPassword = *fc.AdminPassword
	}
	return cfg
}

func promptPassword() (string, error) {
	logErrf("Admin password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	logErrln()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}
