package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/curioswitch/go-curiostack/server"
	"github.com/curioswitch/go-usegcp/middleware/firebaseauth"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lrstanley/go-ytdlp"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"github.com/svatrous/instept-backend/internal/config"
	"github.com/svatrous/instept-backend/internal/download"
	"github.com/svatrous/instept-backend/internal/extract"
	"github.com/svatrous/instept-backend/internal/file"
	"github.com/svatrous/instept-backend/internal/handler/analyze"
	"github.com/svatrous/instept-backend/internal/handler/getrecipe"
	"github.com/svatrous/instept-backend/internal/handler/gettask"
	"github.com/svatrous/instept-backend/internal/handler/listrecipes"
	"github.com/svatrous/instept-backend/internal/handler/rate"
	"github.com/svatrous/instept-backend/internal/handler/translaterecipe"
	"github.com/svatrous/instept-backend/internal/i18n"
	"github.com/svatrous/instept-backend/internal/illustrate"
	imagepkg "github.com/svatrous/instept-backend/internal/image"
	"github.com/svatrous/instept-backend/internal/notify"
	"github.com/svatrous/instept-backend/internal/pipeline"
	"github.com/svatrous/instept-backend/internal/recipedb"
	"github.com/svatrous/instept-backend/internal/translate"
)

//go:embed conf/*.yaml
var confFiles embed.FS

func main() {
	conf, _ := fs.Sub(confFiles, "conf")
	os.Exit(server.Main(&config.Config{}, conf, setupServer))
}

func setupServer(ctx context.Context, conf *config.Config, s *server.Server) error {
	mux := server.Mux(s)

	// Firebase-backed persistence is optional: without a project or
	// credentials the service still extracts fresh recipes, it just cannot
	// cache them or deliver notifications.
	var fbApp *firebase.App
	if conf.Google.Project != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: conf.Google.Project})
		if err != nil {
			slog.WarnContext(ctx, "main: create firebase app, persistence disabled", "error", err)
		} else {
			fbApp = app
		}
	} else {
		slog.WarnContext(ctx, "main: no google project configured, persistence disabled")
	}

	var firestoreClient *firestore.Client
	var messagingClient *messaging.Client
	if fbApp != nil {
		fc, err := fbApp.Firestore(ctx)
		if err != nil {
			slog.WarnContext(ctx, "main: create firestore client, caching disabled", "error", err)
		} else {
			firestoreClient = fc
			defer func() {
				if err := fc.Close(); err != nil {
					slog.ErrorContext(ctx, "main: close firestore client", "error", err)
				}
			}()
		}
		mc, err := fbApp.Messaging(ctx)
		if err != nil {
			slog.WarnContext(ctx, "main: create messaging client, notifications disabled", "error", err)
		} else {
			messagingClient = mc
		}
	}

	var storageClient *storage.Client
	if conf.Recipes.Bucket != "" {
		sc, err := storage.NewGRPCClient(ctx)
		if err != nil {
			slog.WarnContext(ctx, "main: create storage client, imagery disabled", "error", err)
		} else {
			storageClient = sc
			defer func() {
				if err := sc.Close(); err != nil {
					slog.ErrorContext(ctx, "main: close storage client", "error", err)
				}
			}()
		}
	}

	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		Project: conf.Google.Project,
	})
	if err != nil {
		return fmt.Errorf("main: creating genai client: %w", err)
	}

	oai := openai.NewClient()

	if _, err := ytdlp.Install(ctx, nil); err != nil {
		slog.WarnContext(ctx, "main: install yt-dlp, relying on system binary", "error", err)
	}

	store := recipedb.NewStore(firestoreClient, conf.Recipes.Collection)
	images := imagepkg.NewWriter(file.NewIO(storageClient, conf.Recipes.Bucket))

	fetcher := download.NewFetcher(conf.Download.Dir)
	extractor := extract.NewExtractor(genAI, conf.Models.Extract,
		time.Duration(conf.Extract.PollIntervalSeconds)*time.Second, conf.Recipes.BaseLanguage)
	illustrator := illustrate.NewGenerator(genAI, images, conf.Models.Illustrate,
		conf.Illustrate.Attempts, time.Duration(conf.Illustrate.BaseDelaySeconds)*time.Second,
		conf.Illustrate.ContextWindow)
	translator := translate.NewTranslator(genAI, &oai, conf.Models.Translate, conf.Models.TranslateProvider)
	notifier := notify.NewFCM(messagingClient)

	orchestrator := pipeline.NewOrchestrator(store, fetcher, extractor, illustrator, translator, notifier,
		conf.Recipes.BaseLanguage)
	queue := pipeline.NewQueue(orchestrator, conf.Pipeline.Workers, conf.Pipeline.QueueDepth,
		time.Duration(conf.Pipeline.TaskDeadlineMinutes)*time.Minute)
	defer queue.Close()

	if emails := conf.Authorization.EmailsCSV; emails != "" && fbApp != nil {
		fbAuth, err := fbApp.Auth(ctx)
		if err != nil {
			return fmt.Errorf("main: create firebase auth client: %w", err)
		}
		authorizedEmails := strings.Split(emails, ",")
		fbMW := firebaseauth.NewMiddleware(fbAuth)
		requireAccess := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				tok := firebaseauth.TokenFromContext(r.Context())
				if id, ok := tok.Firebase.Identities["email"]; ok {
					if idAny, ok := id.([]any); ok && len(idAny) > 0 {
						if email, ok := idAny[0].(string); ok && slices.Contains(authorizedEmails, email) {
							next.ServeHTTP(w, r)
							return
						}
					}
				}
				http.Error(w, "permission denied", http.StatusForbidden)
			})
		}
		mux.Use(middleware.Maybe(func(h http.Handler) http.Handler {
			return fbMW(requireAccess(h))
		}, func(r *http.Request) bool {
			return !strings.HasPrefix(r.URL.Path, "/internal/")
		}))
	}

	mux.Use(i18n.Middleware())

	mux.Post("/analyze", analyze.NewHandler(queue, conf.Recipes.BaseLanguage).Analyze)
	mux.Post("/translate", translaterecipe.NewHandler(orchestrator).Translate)
	mux.Post("/rate", rate.NewHandler(store).Rate)
	mux.Get("/recipes", listrecipes.NewHandler(store, conf.Recipes.BaseLanguage).ListRecipes)
	mux.Get("/recipes/{recipeID}", getrecipe.NewHandler(store, conf.Recipes.BaseLanguage).GetRecipe)
	mux.Get("/tasks/{taskID}", gettask.NewHandler(queue).GetTask)

	if err := server.Start(ctx, s); err != nil {
		return fmt.Errorf("main: starting server: %w", err)
	}
	return nil
}
