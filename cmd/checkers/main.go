package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/Alex-Gorman/checkers-networking-go/internal/config"
	"github.com/Alex-Gorman/checkers-networking-go/internal/game"
	"github.com/Alex-Gorman/checkers-networking-go/internal/obslog"
	"github.com/Alex-Gorman/checkers-networking-go/internal/transport"
)

func main() {
	hostMode := flag.Bool("host", false, "host a session and wait for a peer")
	joinURL := flag.String("join", "", "websocket URL of a host to join, e.g. ws://192.168.1.10:4560")
	name := flag.String("name", "", "display name (overrides config)")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	if *name != "" {
		cfg.PlayerName = *name
	}
	if *joinURL != "" {
		cfg.ServerURL = *joinURL
	}

	var conn *transport.Conn
	switch {
	case *hostMode:
		h, err := transport.NewHost(cfg.ListenAddr)
		if err != nil {
			log.Fatalf("listen error: %v", err)
		}
		fmt.Printf("waiting for a peer on %s (up to %ds)...\n", h.Addr(), cfg.AcceptTimeoutSec)
		conn, err = h.Accept(context.Background(), time.Duration(cfg.AcceptTimeoutSec)*time.Second)
		if err != nil {
			log.Fatalf("accept error: %v", err)
		}
	case cfg.ServerURL != "":
		conn, err = transport.Join(context.Background(), cfg.ServerURL, time.Duration(cfg.DialTimeoutSec)*time.Second)
		if err != nil {
			log.Fatalf("join error: %v", err)
		}
	default:
		log.Fatal("choose a role: -host, or -join ws://host:port")
	}

	sess := game.NewSession(game.Config{Creator: *hostMode, LocalName: cfg.PlayerName, Out: conn})
	obslog.L().Info("starting console shell", zap.String("session_id", sess.ID))

	done := make(chan struct{})
	var doneOnce sync.Once
	ui := &console{sess: sess}
	sess.Bus().Subscribe(game.Observer{
		BoardChanged: ui.renderBoard,
		ChatChanged:  ui.renderChat,
		ScoreChanged: ui.renderScore,
		ReturnToMenu: func() { doneOnce.Do(func() { close(done) }) },
	})

	conn.Listen(sess.HandleInboundFrame, sess.HandleDisconnect)
	sess.SendHandshake()
	ui.renderBoard()
	fmt.Println(`commands: "row col" to click a square, "say <text>" to chat, "quit" to leave`)

	go readInput(sess)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		sess.QuitSession()
	case <-done:
	}
	fmt.Println("session over")
}

func readInput(sess *game.Session) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line == "quit":
			sess.QuitSession()
			return
		case strings.HasPrefix(line, "say "):
			sess.SendChat(strings.TrimSpace(strings.TrimPrefix(line, "say ")))
		default:
			fields := strings.Fields(line)
			if len(fields) != 2 {
				fmt.Println(`expected "row col", "say <text>" or "quit"`)
				continue
			}
			row, err1 := strconv.Atoi(fields[0])
			col, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				fmt.Println("row and col must be integers 0..7")
				continue
			}
			sess.ApplyLocalSelection(row, col)
		}
	}
}

// console re-reads session snapshots on each refresh signal and prints them.
type console struct {
	sess *game.Session
}

func (c *console) renderBoard() {
	view := c.sess.BoardSnapshot()
	var grid [8][8]byte
	for r := range grid {
		for col := range grid[r] {
			grid[r][col] = '.'
		}
	}
	for _, d := range view.Destinations {
		grid[d.Row][d.Col] = '*'
	}
	for _, p := range view.Pieces {
		switch {
		case p.Mine && p.King:
			grid[p.Row][p.Col] = 'O'
		case p.Mine:
			grid[p.Row][p.Col] = 'o'
		case p.King:
			grid[p.Row][p.Col] = 'X'
		default:
			grid[p.Row][p.Col] = 'x'
		}
	}

	var sb strings.Builder
	sb.WriteString("  0 1 2 3 4 5 6 7\n")
	for r := 0; r < 8; r++ {
		sb.WriteByte(byte('0' + r))
		for col := 0; col < 8; col++ {
			sb.WriteByte(' ')
			sb.WriteByte(grid[r][col])
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("state: ")
	sb.WriteString(view.State)
	fmt.Println(sb.String())
}

func (c *console) renderChat() {
	chat := c.sess.ChatSnapshot()
	if len(chat) > 0 {
		fmt.Println("[chat] " + chat[len(chat)-1])
	}
}

func (c *console) renderScore() {
	s := c.sess.ScoreSnapshot()
	fmt.Printf("score: %s %d - %d %s\n", s.LocalName, s.LocalScore, s.PeerScore, s.PeerName)
}
