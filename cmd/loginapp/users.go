package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/sakhura/loginapp/pkg/users"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect the user store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users in the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags()
			if err != nil {
				return err
			}
			return printUsers(cmd.OutOrStdout(), a.repo.ListUsers())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "credentials",
		Short: "Show the test credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags()
			if err != nil {
				return err
			}
			printCredentials(cmd.OutOrStdout(), a.repo.ListUsers())
			return nil
		},
	})

	return cmd
}

func appFromFlags() (*app, error) {
	fs := afero.NewOsFs()
	config, err := loadAppConfig(fs, cfgFile)
	if err != nil {
		return nil, err
	}
	if err := setupLogging(config); err != nil {
		return nil, err
	}
	return newApp(fs, config)
}

func printUsers(out io.Writer, list []users.User) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSUARIO\tEMAIL\tACTIVO\tCONTRASEÑA")
	for _, u := range list {
		active := "sí"
		if !u.Active {
			active = "no"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, active, strings.Repeat("*", len([]rune(u.Password))))
	}
	return w.Flush()
}

func printCredentials(out io.Writer, list []users.User) {
	fmt.Fprintln(out, "Credenciales de prueba:")
	for _, u := range list {
		if !u.Active {
			continue
		}
		fmt.Fprintf(out, "  %s / %s\n", u.Username, u.Password)
	}
}
