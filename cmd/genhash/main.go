// Command genhash prints a bcrypt hash for a password given as the first
// argument or on stdin, for seeding users.password_hash by hand.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"crew-directory.backend/pkg/crypto"
)

func generatePasswordHash(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func readPassword(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("usage: genhash <password> (or pipe it on stdin)")
	}
	return password, nil
}

func run(args []string, stdin io.Reader, out io.Writer) error {
	password, err := readPassword(args, stdin)
	if err != nil {
		return err
	}
	if err := crypto.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := generatePasswordHash(password, crypto.DefaultCost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
