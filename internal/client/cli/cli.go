package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

func PrintUsage() {
	fmt.Println("Drawboard Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  drawboard [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version       Show version information")
	fmt.Println("  --server URL    Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH       Path to local database (default: drawboard-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login [TOKEN]           Store access token (prompts if omitted)")
	fmt.Println("  logout                  Remove stored token")
	fmt.Println("  status                  Show authentication status")
	fmt.Println("  list <roomID>           Show shapes of a room")
	fmt.Println("  draw <roomID> <shape>   Draw a shape (JSON) in a room")
	fmt.Println("  erase <roomID> <id>     Erase a shape by id")
	fmt.Println("  watch <roomID>          Follow room events until interrupted")
	fmt.Println()
	fmt.Println("Token Priority (highest to lowest):")
	fmt.Println("  1. DRAWBOARD_TOKEN environment variable")
	fmt.Println("  2. login command argument")
	fmt.Println("  3. Interactive prompt (hidden input)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  drawboard login")
	fmt.Println("  drawboard list 1")
	fmt.Println(`  drawboard draw 1 '{"type":"rect","x":10,"y":10,"width":80,"height":40}'`)
	fmt.Println("  drawboard erase 1 42")
	fmt.Println("  drawboard --server https://example.com watch 1")
}

// readInput читает строку из stdin
func readInput(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// readSecret читает секрет без отображения на экране
func readSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	secretBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Переход на новую строку после ввода
	if err != nil {
		return "", err
	}
	return string(secretBytes), nil
}

// parseRoomID разбирает позиционный аргумент с номером комнаты
func parseRoomID(arg string) (int64, error) {
	roomID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || roomID <= 0 {
		return 0, fmt.Errorf("invalid room id %q: expected a positive number", arg)
	}
	return roomID, nil
}
