// Maintenance CLI for the flashcards API: inspect a lesson, flip its
// visibility or push an asset without going through the web screens.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/braincards/webapp/models"
	"github.com/braincards/webapp/services"
	"github.com/braincards/webapp/utils"
)

func usage() {
	fmt.Println("go run main.go <command> [args...]")
	fmt.Println("  fetch-lesson <slug>")
	fmt.Println("  set-visibility <slug> public|private")
	fmt.Println("  upload-asset <path> image|audio")
}

type cmdHandler func([]string) error

func main() {
	if err := godotenv.Load(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "no .env file found, relying on environment")
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	handlers := map[string]cmdHandler{
		"fetch-lesson":   handleFetchLesson,
		"set-visibility": handleSetVisibility,
		"upload-asset":   handleUploadAsset,
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	handler, ok := handlers[cmd]
	if !ok {
		usage()
		os.Exit(2)
	}

	if err := handler(args); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", cmd, err)
		os.Exit(1)
	}
}

func client() *services.Client {
	return services.NewClient(utils.MustGetEnv("BRAINCARDS_API_URL"))
}

func token() string {
	return utils.MustGetEnv("BRAINCARDS_TOKEN")
}

func handleFetchLesson(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("Must provide a lesson slug")
	}
	lesson, err := client().FetchLesson(context.Background(), args[0], token())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(lesson, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func handleSetVisibility(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("Must provide a lesson slug and public|private")
	}
	visibility := models.Visibility(args[1])
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return fmt.Errorf("Visibility must be public or private")
	}

	api := client()
	slug := args[0]
	lesson, err := api.FetchLesson(context.Background(), slug, token())
	if err != nil {
		return err
	}
	lesson.Visibility = visibility
	if err := api.UpdateLesson(context.Background(), slug, token(), lesson); err != nil {
		return err
	}
	fmt.Printf("%s is now %s\n", slug, visibility)
	return nil
}

func handleUploadAsset(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("Must provide a file path and image|audio")
	}
	kind := services.FileKind(strings.ToLower(args[1]))
	if kind != services.FileImage && kind != services.FileAudio {
		return fmt.Errorf("File type must be image or audio")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	url, err := client().Upload(context.Background(), f, filepath.Base(args[0]), kind)
	if err != nil {
		return err
	}
	fmt.Println(url)
	return nil
}
