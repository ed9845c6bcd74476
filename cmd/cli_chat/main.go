package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"unibot/internal/config"
	"unibot/internal/db"
	"unibot/internal/domain"
	"unibot/internal/llm"
	"unibot/internal/repository"
	"unibot/internal/service"
)

func main() {
	username := flag.String("user", "", "username con el que chatear (ej: student1)")
	flag.Parse()

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	enrollmentRepo := repository.NewPgEnrollmentRepository(pool)
	assignmentRepo := repository.NewPgAssignmentRepository(pool)
	chatRepo := repository.NewPgChatRepository(pool)

	settings := cfg.LLM()
	var llmClient llm.ChatCompleter
	if settings.HasValidCredential() {
		llmClient = llm.NewHTTPClient(settings.BaseURL, settings.APIKey, settings.Model, settings.Timeout, logger)
	}
	builder := service.NewEnrollmentContextBuilder(enrollmentRepo, assignmentRepo)
	fallback := service.NewFallbackResponder(userRepo, enrollmentRepo, assignmentRepo, logger)
	router := service.NewResponseRouter(settings, llmClient, builder, fallback, logger)
	chatSvc := service.NewChatService(chatRepo, router)

	name := strings.TrimSpace(*username)
	if name == "" {
		fmt.Print("Username: ")
		line, _ := reader.ReadString('\n')
		name = strings.TrimSpace(line)
	}
	user, err := userRepo.GetByUsername(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("usuario %q no existe (corré cmd/seed para datos de demo)", name)
	}
	if err != nil {
		log.Fatal(err)
	}

	if !settings.HasValidCredential() {
		fmt.Println("LLM sin configurar: se usan respuestas por reglas.")
	}

	for {
		fmt.Printf("\n--- UNIBOT: %s (%s) ---\n", user.DisplayName(), user.Role)
		fmt.Println("[1] Chatear")
		fmt.Println("[2] Ver historial")
		fmt.Println("[3] Ver contexto académico")
		fmt.Println("[4] Salir")
		fmt.Print("Selecciona una opcion: ")

		line, _ := reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			if err := chatFlow(ctx, reader, user, chatSvc); err != nil {
				fmt.Printf("Error en chat: %v\n", err)
			}
		case "2":
			if err := printHistory(ctx, user, chatSvc); err != nil {
				fmt.Printf("Error leyendo historial: %v\n", err)
			}
		case "3":
			enrollmentCtx, err := builder.BuildContext(ctx, user.ID)
			if err != nil {
				fmt.Printf("Error armando contexto: %v\n", err)
				continue
			}
			fmt.Println(enrollmentCtx.Render())
		case "4":
			return
		default:
			fmt.Println("Opcion invalida.")
		}
	}
}

func chatFlow(ctx context.Context, reader *bufio.Reader, user domain.User, chatSvc *service.ChatService) error {
	fmt.Println("---- Modo Chat (escribe 'salir' para terminar chat) ----")
	for {
		fmt.Print("Tu > ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("leer input: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "salir") || strings.EqualFold(text, "exit") {
			fmt.Println("Saliendo del chat...")
			return nil
		}

		reply, err := chatSvc.SubmitMessage(ctx, user.ID, text)
		if err != nil {
			if errors.Is(err, service.ErrMessageTooLong) {
				fmt.Printf("El mensaje supera los %d caracteres.\n", service.MaxMessageLength)
				continue
			}
			fmt.Printf("error procesando mensaje: %v\n", err)
			continue
		}
		fmt.Printf("UNIBOT > %s\n", reply.Response)
	}
}

func printHistory(ctx context.Context, user domain.User, chatSvc *service.ChatService) error {
	turns, err := chatSvc.History(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(turns) == 0 {
		fmt.Println("Sin conversaciones todavía.")
		return nil
	}
	for _, t := range turns {
		fmt.Printf("[%s] Tu > %s\n", t.Query.CreatedAt.Format("2006-01-02 15:04"), t.Query.Content)
		if t.Response != nil {
			fmt.Printf("UNIBOT > %s\n", t.Response.Text)
		}
	}
	return nil
}
