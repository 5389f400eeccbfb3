package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// hashtoken prints the bcrypt hash to put in ADMIN_TOKEN_HASH. The token is
// read from ADMIN_TOKEN or, if unset, from the first line of stdin.
func main() {
	token := os.Getenv("ADMIN_TOKEN")
	if token == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read token from stdin: %v", err)
		}
		token = line
	}

	token = strings.TrimSpace(token)
	if len(token) < 12 {
		log.Fatalf("Admin token must be at least 12 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash token: %v", err)
	}

	fmt.Println(string(hash))
	log.Println("✓ Set ADMIN_TOKEN_HASH to the line above and log in at /api/v1/admin/login")
}
