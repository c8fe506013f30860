package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ersonp/carelog/internal/infrastructure/config"
)

func newChildrenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "children",
		Short: "Manage children",
		RunE:  runChildrenList,
	}

	cmd.AddCommand(
		newChildrenListCmd(),
		newChildrenAddCmd(),
		newChildrenRemoveCmd(),
	)

	return cmd
}

func newChildrenListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered children",
		RunE:  runChildrenList,
	}
}

func runChildrenList(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	children, err := config.LoadChildren(cwd)
	if err != nil {
		return fmt.Errorf("loading children: %w", err)
	}

	if len(children.Children) == 0 {
		fmt.Println("No children configured.")
		fmt.Println("Use 'carelog children add NAME' to register a child.")
		return nil
	}

	fmt.Printf("%-16s %-38s %-22s %s\n", "NAME", "ID", "TIMEZONE", "DESCRIPTION")
	fmt.Printf("%-16s %-38s %-22s %s\n", "----", "--", "--------", "-----------")

	for _, name := range children.Names() {
		child := children.Children[name]
		tz := child.Timezone
		if tz == "" {
			tz = "(config default)"
		}
		fmt.Printf("%-16s %-38s %-22s %s\n", name, child.ID, tz, child.Description)
	}

	return nil
}

type childrenAddFlags struct {
	id          string
	familyID    string
	timezone    string
	description string
}

func newChildrenAddCmd() *cobra.Command {
	var flags childrenAddFlags

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a child",
		Long:  "Registers a child. Ids are generated when not given; pass --id and --family to attach to existing data.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChildrenAdd(args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.id, "id", "", "Child id (default: generated)")
	cmd.Flags().StringVar(&flags.familyID, "family", "", "Family id (default: generated)")
	cmd.Flags().StringVarP(&flags.timezone, "timezone", "t", "", "IANA timezone for day boundaries (default: stats.timezone)")
	cmd.Flags().StringVarP(&flags.description, "description", "d", "", "Description")

	return cmd
}

func runChildrenAdd(name string, flags childrenAddFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if !config.Exists(cwd) {
		return fmt.Errorf("carelog not initialized in %s (run 'carelog init' first)", cwd)
	}

	children, err := config.LoadChildren(cwd)
	if err != nil {
		return fmt.Errorf("loading children: %w", err)
	}

	if children.Exists(name) {
		return fmt.Errorf("child %q already exists", name)
	}

	entry := config.ChildEntry{
		ID:          flags.id,
		FamilyID:    flags.familyID,
		Timezone:    flags.timezone,
		Description: flags.description,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.FamilyID == "" {
		entry.FamilyID = uuid.NewString()
	}

	key, err := children.Add(name, entry)
	if err != nil {
		return err
	}

	if err := children.Save(cwd); err != nil {
		return err
	}

	fmt.Printf("Added child %q (id %s)\n", key, entry.ID)
	return nil
}

func newChildrenRemoveCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Unregister a child",
		Long:  "Removes a child from the registry. Logged entries stay in the entry store.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChildrenRemove(args[0], force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runChildrenRemove(name string, force bool) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	children, err := config.LoadChildren(cwd)
	if err != nil {
		return fmt.Errorf("loading children: %w", err)
	}

	if !children.Exists(name) {
		return fmt.Errorf("child %q not found", name)
	}

	if !force && !confirmAction(fmt.Sprintf("Remove child %q from the registry?", name)) {
		fmt.Println("Cancelled.")
		return nil
	}

	children.Remove(name)
	if err := children.Save(cwd); err != nil {
		return err
	}

	fmt.Printf("Removed child %q\n", name)
	return nil
}
