package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/braincards/webapp/handlers"
	"github.com/braincards/webapp/logger"
	"github.com/braincards/webapp/services"
	"github.com/braincards/webapp/utils"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found or error loading it:", err)
	}

	appLog, err := logger.New(utils.GetEnv("LOG_MODE", "dev"))
	if err != nil {
		log.Fatal("Logger init failed:", err)
	}
	defer appLog.Sync()

	api := services.NewClient(utils.MustGetEnv("BRAINCARDS_API_URL"))
	handlers.Configure(api, appLog)

	http.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir("./frontend/static"))))

	http.HandleFunc("/", handlers.ServeHome)
	http.HandleFunc("/login", handlers.LoginPage)
	http.HandleFunc("/logout", handlers.LogoutHandler)
	http.HandleFunc("/flashcards/edit", handlers.EditLessonPage)
	http.HandleFunc("/flashcards/edit/card-type", handlers.CardTypeHandler)
	http.HandleFunc("/flashcards/edit/add-card", handlers.AddCardHandler)
	http.HandleFunc("/flashcards/edit/confirm-remove", handlers.ConfirmRemoveCardPage)
	http.HandleFunc("/flashcards/edit/remove-card", handlers.RemoveCardHandler)
	http.HandleFunc("/flashcards/edit/add-option", handlers.AddOptionHandler)
	http.HandleFunc("/flashcards/edit/remove-option", handlers.RemoveOptionHandler)
	http.HandleFunc("/flashcards/edit/upload", handlers.UploadHandler)
	http.HandleFunc("/flashcards/edit/upload-status", handlers.UploadStatusHandler)
	http.HandleFunc("/flashcards/edit/image-loaded", handlers.ImageLoadedHandler)
	http.HandleFunc("/flashcards/edit/remove-media", handlers.RemoveMediaHandler)
	http.HandleFunc("/flashcards/edit/submit", handlers.SubmitHandler)

	port := utils.GetEnv("PORT", "8080")
	appLog.Infow("server listening", "port", port)
	err = http.ListenAndServe(":"+port, nil)
	if err != nil {
		log.Fatal("Server error:", err)
	}
}
