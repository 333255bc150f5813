package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/RichardoC/padchat/internal/client"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type options struct {
	ServerURL string        `env:"PADCHAT_URL" envDefault:"http://localhost:5000"`
	Timeout   time.Duration `env:"PADCHAT_TIMEOUT" envDefault:"2m"`
	Debug     bool          `env:"LOG_DEVELOPMENT" envDefault:"false"`
}

const help = `commands:
  /list          list conversations
  /open <id>     open a conversation
  /new           start a new conversation
  /delete <id>   delete a conversation
  /image <path>  attach an image to the next message
  /quit          exit
an empty line sends the attached image on its own
anything else is sent as a message`

func main() {
	_ = godotenv.Load()

	var opts options
	if err := env.Parse(&opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := zap.NewNop()
	if opts.Debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(opts.ServerURL, &http.Client{Timeout: opts.Timeout})
	state := client.NewState(api, client.NotifierFunc(func(t client.Toast) {
		fmt.Fprintf(os.Stdout, "[%s] %s\n", t.Title, t.Description)
	}))

	r := &repl{state: state, out: os.Stdout, logger: logger}
	if err := r.run(ctx, os.Stdin); err != nil {
		logger.Error("chat session ended", zap.Error(err))
		os.Exit(1)
	}
}

type repl struct {
	state  *client.State
	out    io.Writer
	logger *zap.Logger
	image  string
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, help)
	r.prompt(ctx)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "/quit" {
			return nil
		}
		r.handle(ctx, line)
		r.prompt(ctx)
	}
	return scanner.Err()
}

func (r *repl) prompt(ctx context.Context) {
	fmt.Fprintf(r.out, "%s> ", r.state.Title(ctx))
}

func (r *repl) handle(ctx context.Context, line string) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		if r.image != "" {
			r.send(ctx, "")
		}
	case "/list":
		r.list(ctx)
	case "/open":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: /open <id>")
			return
		}
		r.state.Select(arg)
		r.history(ctx)
	case "/new":
		r.state.New()
		r.image = ""
	case "/delete":
		if arg == "" {
			fmt.Fprintln(r.out, "usage: /delete <id>")
			return
		}
		if err := r.state.Delete(ctx, arg); err != nil {
			r.logger.Debug("delete failed", zap.Error(err))
		}
	case "/image":
		img, err := client.EncodeImageFile(arg)
		if err != nil {
			fmt.Fprintln(r.out, err)
			return
		}
		r.image = img
		fmt.Fprintln(r.out, "image attached")
	case "/help":
		fmt.Fprintln(r.out, help)
	default:
		r.send(ctx, line)
	}
}

func (r *repl) list(ctx context.Context) {
	convs, err := r.state.Conversations(ctx)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	if len(convs) == 0 {
		fmt.Fprintln(r.out, "no conversations")
		return
	}
	active := r.state.Active()
	for _, c := range convs {
		marker := " "
		if c.ID == active {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %s  %s\n", marker, c.ID, c.Title)
	}
}

func (r *repl) history(ctx context.Context) {
	msgs, err := r.state.Messages(ctx)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(r.out, "%s: %s\n", m.Role, m.Content)
	}
}

func (r *repl) send(ctx context.Context, text string) {
	type result struct {
		res *client.ChatResponse
		err error
	}
	image := r.image
	done := make(chan result, 1)
	go func() {
		res, err := r.state.Send(ctx, text, image)
		done <- result{res, err}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case out := <-done:
			if out.err != nil {
				r.logger.Debug("send failed", zap.Error(out.err))
				return
			}
			r.image = ""
			fmt.Fprintf(r.out, "\rassistant: %s\n", out.res.Response)
			return
		case <-ticker.C:
			if r.state.Pending() {
				fmt.Fprint(r.out, ".")
			}
		}
	}
}
