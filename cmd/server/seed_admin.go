package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cob-tracker/internal/auth"
	"cob-tracker/internal/store"
)

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the admin account",
	Long: `Create the admin account used to log in to the admin panel.

On a terminal the password is prompted for twice without echo. Otherwise the
first line of stdin is used, so it can be piped in:

  printf '%s\n' "$ADMIN_PASSWORD" | cob-tracker seed-admin -u ops`,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		username = strings.TrimSpace(username)
		if username == "" {
			return errors.New("username is required")
		}

		password, err := askPassword(os.Stdin, cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		cfg, log, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := connectPool(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := store.Migrate(ctx, pool); err != nil {
			return err
		}

		a, err := auth.NewAdmin(username, password)
		if err != nil {
			return err
		}
		err = store.New(pool).CreateAdmin(ctx, a)
		if errors.Is(err, store.ErrExists) {
			return fmt.Errorf("user %q already exists", username)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %q created\n", username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
	seedAdminCmd.Flags().StringP("username", "u", "admin", "admin username")
}

func askPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return firstLine(in)
	}

	fmt.Fprint(prompt, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	fmt.Fprint(prompt, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", err
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	if len(first) == 0 {
		return "", errors.New("password is required")
	}
	return string(first), nil
}

func firstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required on stdin")
	}
	return line, nil
}
