// Command create-admin creates a staff account in the configured database.
// Email and password are prompted for, or a random password is generated when left blank.
package main

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/mail"
	"os"
	"strings"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/utilities"
)

// generateRandomString creates a random hex string of length 2n
func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal(err)
	}
	return hex.EncodeToString(bytes)
}

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func main() {
	fmt.Println("Generating staff account")
	reader := bufio.NewReader(os.Stdin)

	email := strings.ToLower(prompt(reader, "Enter email: "))
	if _, err := mail.ParseAddress(email); err != nil {
		fmt.Println("Email is not valid.")
		os.Exit(1)
	}

	password := prompt(reader, "Enter password (blank to generate): ")
	generated := password == ""
	if generated {
		password = generateRandomString(8)
	} else {
		if len(password) < 8 {
			fmt.Println("Password must be at least 8 characters.")
			os.Exit(1)
		}
		if prompt(reader, "Confirm password: ") != password {
			fmt.Println("Passwords do not match.")
			os.Exit(1)
		}
	}
	firstName := prompt(reader, "First name: ")
	lastName := prompt(reader, "Last name: ")

	db, err := database.NewDBInstance(database.ConfigFrom(config.LoadServerConfig()))
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Fatalf("Failed to look up user: %v", err)
	}
	if count > 0 {
		fmt.Println("A user with this email already exists.")
		os.Exit(1)
	}

	admin, err := utilities.CreateStaff(db.DB, email, password, firstName, lastName)
	if err != nil {
		log.Fatal("failed to create staff: ", err)
	}

	fmt.Println("Staff account created successfully!")
	fmt.Println("======================================")
	fmt.Printf("Email: %s\n", admin.Email)
	if generated {
		fmt.Printf("Password: %s\n", password)
	}
	fmt.Println("======================================")
}
