package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/aryan0dhankhar/claimledger/pkg/client"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	c := client.New(getAPIURL(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var err error
	switch command {
	case "auth":
		err = handleAuth(ctx, c, args)
	case "expense":
		err = handleExpense(ctx, c, args)
	case "bill":
		err = handleBill(ctx, c, args)
	case "file":
		err = handleFile(ctx, c, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func handleAuth(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: claimledger auth <register|login>")
		return nil
	}

	switch args[0] {
	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		email := fs.String("email", "", "user email")
		username := fs.String("username", "", "username")
		password := fs.String("password", "", "password (prompted when empty)")
		fs.Parse(args[1:])

		if *password == "" {
			p, err := promptPassword(os.Stdin, os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			*password = p
		}

		user, err := c.Register(ctx, *username, *email, *password)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}
		fmt.Printf("✓ User registered: %s (id %s)\n", user.Email, user.ID)
	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		email := fs.String("email", "", "user email")
		password := fs.String("password", "", "password (prompted when empty)")
		fs.Parse(args[1:])

		if *password == "" {
			p, err := promptPassword(os.Stdin, os.Stderr)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			*password = p
		}

		user, err := c.Login(ctx, *email, *password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		fmt.Printf("✓ Logged in as: %s (id %s)\n", user.Username, user.ID)
	default:
		fmt.Printf("unknown auth command: %s\n", args[0])
	}
	return nil
}

func handleExpense(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: claimledger expense <add|list>")
		return nil
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("expense add", flag.ExitOnError)
		date := fs.String("date", time.Now().Format("2006-01-02"), "claim date (YYYY-MM-DD)")
		category := fs.String("category", "", "expense category")
		description := fs.String("description", "", "description")
		amount := fs.Float64("amount", 0, "amount")
		userID := fs.String("user", "", "user id")
		fs.Parse(args[1:])

		e, err := c.AddExpense(ctx, client.Expense{
			ClaimDate:   *date,
			Category:    *category,
			Description: *description,
			Amount:      *amount,
			UserID:      *userID,
		})
		if err != nil {
			return fmt.Errorf("adding expense failed: %w", err)
		}
		fmt.Printf("✓ Expense added: %s\n", e.ID)
	case "list":
		fs := flag.NewFlagSet("expense list", flag.ExitOnError)
		userID := fs.String("user", "", "user id")
		fs.Parse(args[1:])

		expenses, err := c.ListExpenses(ctx, *userID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
		for _, e := range expenses {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", e.ID, e.ClaimDate, e.Category, e.Amount, e.Description)
		}
		w.Flush()
	default:
		fmt.Printf("unknown expense command: %s\n", args[0])
	}
	return nil
}

func handleBill(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: claimledger bill <add|list>")
		return nil
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("bill add", flag.ExitOnError)
		billType := fs.String("type", "", "bill type")
		billDate := fs.String("date", time.Now().Format("2006-01-02"), "bill date (YYYY-MM-DD)")
		dueDate := fs.String("due", "", "due date (YYYY-MM-DD)")
		amount := fs.Float64("amount", 0, "amount")
		userID := fs.String("user", "", "user id")
		fs.Parse(args[1:])

		b, err := c.AddBill(ctx, client.Bill{
			BillType: *billType,
			BillDate: *billDate,
			DueDate:  *dueDate,
			Amount:   *amount,
			UserID:   *userID,
		})
		if err != nil {
			return fmt.Errorf("adding bill failed: %w", err)
		}
		fmt.Printf("✓ Bill added: %s\n", b.ID)
	case "list":
		fs := flag.NewFlagSet("bill list", flag.ExitOnError)
		userID := fs.String("user", "", "user id")
		fs.Parse(args[1:])

		bills, err := c.ListBills(ctx, *userID)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tBILL DATE\tDUE\tAMOUNT")
		for _, b := range bills {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\n", b.ID, b.BillType, b.BillDate, b.DueDate, b.Amount)
		}
		w.Flush()
	default:
		fmt.Printf("unknown bill command: %s\n", args[0])
	}
	return nil
}

func handleFile(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 2 {
		fmt.Println("Usage: claimledger file <upload <path>|get <filename> [-o out]>")
		return nil
	}

	switch args[0] {
	case "upload":
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		id, err := c.Upload(ctx, filepath.Base(args[1]), f)
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}
		fmt.Printf("✓ File uploaded: %s\n", id)
	case "get":
		fs := flag.NewFlagSet("file get", flag.ExitOnError)
		out := fs.String("o", "", "output path (default stdout)")
		fs.Parse(args[2:])

		var w io.Writer = os.Stdout
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		n, err := c.Download(ctx, args[1], w)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		if *out != "" {
			fmt.Printf("✓ Wrote %d bytes to %s\n", n, *out)
		}
	default:
		fmt.Printf("unknown file command: %s\n", args[0])
	}
	return nil
}

// promptPassword reads a password without echo when stdin is a terminal,
// or the first line of stdin otherwise.
func promptPassword(stdin io.Reader, prompt io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func getAPIURL() string {
	if url := os.Getenv("CLAIMLEDGER_API"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func printUsage() {
	fmt.Print(`claimledger CLI

Usage:
  claimledger <command> [options]

Commands:
  auth     Account operations (register, login)
  expense  Expense claims (add, list)
  bill     Bills (add, list)
  file     Files (upload, get)
  help     Show this help message

Environment Variables:
  CLAIMLEDGER_API    Server address (default: http://localhost:8080)

Examples:
  claimledger auth register -email user@example.com -username user
  claimledger expense add -date 2024-01-15 -category travel -description taxi -amount 42.50 -user <id>
  claimledger bill list -user <id>
  claimledger file upload ./receipt.png
  claimledger file get receipt.png -o receipt.png
`)
}
