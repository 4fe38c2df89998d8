package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/caracaca/caracaca-client/internal/anim"
	"github.com/caracaca/caracaca-client/internal/auth"
	"github.com/caracaca/caracaca-client/internal/catalog"
	"github.com/caracaca/caracaca-client/internal/channel"
	"github.com/caracaca/caracaca-client/internal/config"
	"github.com/caracaca/caracaca-client/internal/engine"
	"github.com/caracaca/caracaca-client/internal/httpapi"
	"github.com/caracaca/caracaca-client/internal/session"
	"github.com/caracaca/caracaca-client/internal/store"
	"github.com/caracaca/caracaca-client/internal/variant"
	"github.com/caracaca/caracaca-client/internal/variant/war"
	"github.com/caracaca/caracaca-client/pkg/types"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log = log.With(zap.String("client", uuid.NewString()[:8]))

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	st := store.New()
	token := os.Getenv("CARACACA_TOKEN")
	if token == "" {
		log.Fatal("CARACACA_TOKEN is required")
	}
	if err := auth.Check(token, time.Now()); err != nil {
		log.Fatal("credential", zap.Error(err))
	}
	claims, err := auth.Inspect(token)
	if err != nil {
		log.Fatal("credential", zap.Error(err))
	}
	st.SetToken(token)
	st.SetUsername(claims.Username)

	ctx := context.Background()
	api := httpapi.NewClient(cfg, st.Token, log)

	game, err := api.ActiveGame(ctx)
	if errors.Is(err, httpapi.ErrNoActiveGame) {
		game, err = pickGame(ctx, api)
	}
	if err != nil {
		log.Fatal("game lookup", zap.Error(err))
	}
	st.SetGameID(game.ID)
	log.Info("joined game", zap.String("game", game.ID.String()), zap.String("type", game.GameType))

	var cat *catalog.Catalog
	if cards, err := api.Cards(ctx); err != nil {
		log.Warn("card catalog unavailable, rendering bare ids", zap.Error(err))
	} else if cat, err = catalog.New(cards); err != nil {
		log.Warn("card catalog unusable", zap.Error(err))
	}

	hooks := variant.Hooks{}
	if game.GameType == "war" {
		hooks = war.New(log).Hooks()
	}

	mgr := channel.NewManager(ctx, cfg, st, api, nil, log)
	sess := session.New(ctx, engine.NewState(game.ID, st.Username()), session.Deps{
		Sender:    mgr,
		Presenter: consolePresenter{},
		Hooks:     hooks,
		Anim:      anim.NewRegistry(),
		Store:     st,
		Catalog:   cat,
		Log:       log,
	})
	sess.Attach(mgr.Frames())
	disp := session.NewDispatcher(sess, api, cfg.DispatchGuard)

	if err := mgr.Open(ctx); err != nil {
		log.Fatal("channel", zap.Error(err))
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		mgr.Close()
		os.Exit(0)
	}()

	repl(ctx, sess, disp)
	mgr.Close()
}

// pickGame joins the first listed game, or creates a war game when the lobby
// is empty.
func pickGame(ctx context.Context, api *httpapi.Client) (httpapi.Game, error) {
	games, err := api.Games(ctx)
	if err != nil {
		return httpapi.Game{}, err
	}
	var game httpapi.Game
	if len(games) > 0 {
		game = games[0]
	} else {
		game, err = api.CreateGame(ctx, "war")
		if err != nil {
			return httpapi.Game{}, err
		}
	}
	if err := api.JoinGame(ctx, game.ID); err != nil {
		return httpapi.Game{}, err
	}
	return game, nil
}

func repl(ctx context.Context, sess *session.Session, disp *session.Dispatcher) {
	fmt.Println("commands: hand | play <cardId> | chat <text> | start | restart | finish | lobby | quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		cmd, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		var err error
		switch cmd {
		case "":
		case "hand":
			consolePresenter{}.RenderHand(engine.SelfHand(sess.State()))
		case "play":
			err = disp.PlayCard(ctx, types.FlexID(arg))
		case "chat":
			err = disp.SendChat(ctx, arg)
		case "start":
			err = disp.StartGame(ctx)
		case "restart":
			err = disp.RestartGame(ctx)
		case "finish":
			err = disp.FinishGame(ctx)
		case "lobby":
			disp.ReturnToLobby(ctx)
			return
		case "quit":
			return
		default:
			fmt.Printf("unknown command %q\n", cmd)
		}
		if err != nil {
			fmt.Printf("! %v\n", err)
		}
	}
}
