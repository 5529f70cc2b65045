// Command reportctl is a small operator client for the reporting server:
// log in, list accounts, trigger report archive exports.
//
// Usage:
//
//	reportctl -s http://localhost:8080 login -u admin
//	reportctl -s http://localhost:8080 -t <token> users
//	reportctl -s http://localhost:8080 -t <token> export <userId>
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	serverURL := flag.String("s", "http://localhost:8080", "server base URL")
	token := flag.String("t", os.Getenv("REPORTCTL_TOKEN"), "session token (or REPORTCTL_TOKEN)")
	userName := flag.String("u", "", "username for login")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("expected a command: login, users, export")
	}

	client := newAPIClient(*serverURL, *token)

	switch args[0] {
	case "login":
		if *userName == "" {
			log.Fatal("login requires -u <username>")
		}
		fmt.Println("Enter password")
		password, err := readPassword(int(os.Stdin.Fd()))
		if err != nil {
			log.Fatalf("reading password: %v", err)
		}
		res, err := client.Login(*userName, string(password))
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
		fmt.Printf("Logged in as %s (%s)\n", res.User.FullName, res.User.Role)
		fmt.Println(res.Token)

	case "users":
		users, err := client.ListUsers()
		if err != nil {
			log.Fatalf("listing users failed: %v", err)
		}
		for _, u := range users {
			fmt.Printf("%s\t%s\t%s\t%s\n", u.ID, u.UserName, u.Role, u.FullName)
		}

	case "export":
		if len(args) < 2 {
			log.Fatal("export requires a user id")
		}
		key, err := client.Export(args[1])
		if err != nil {
			log.Fatalf("export failed: %v", err)
		}
		fmt.Printf("archived to %s\n", key)

	default:
		log.Fatalf("unknown command %q", args[0])
	}
}
