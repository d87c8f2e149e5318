package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	apperrors "github.com/nahidhasan98/diff-notifier/internal/errors"
	"github.com/nahidhasan98/diff-notifier/internal/logger"
)

const (
	// qrTimeout is how long one QR code stays scannable
	qrTimeout = 60 * time.Second

	// maxQRAttempts bounds how many QR codes the pair action shows
	maxQRAttempts = 5

	// connectTimeout bounds the wait for a stored session to come online
	connectTimeout = 30 * time.Second
)

// WhatsAppClient wraps the whatsmeow client for a single send or pairing
type WhatsAppClient struct {
	Client    *whatsmeow.Client
	Container *sqlstore.Container
	log       *logger.Logger

	connected     chan struct{}
	connectedOnce sync.Once
}

// ClientOptions configures the session store and device identity
type ClientOptions struct {
	DBDriver   string
	DBDSN      string
	LogLevel   string
	DeviceName string
}

// NewWhatsAppClient opens the session store and prepares a client for its first device
func NewWhatsAppClient(ctx context.Context, opts ClientOptions, log *logger.Logger) (*WhatsAppClient, error) {
	container, err := sqlstore.New(ctx, opts.DBDriver, opts.DBDSN, whatsmeowLogger(log, "Database", opts.LogLevel))
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to create database container: %w", err))
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, apperrors.DatabaseError(fmt.Errorf("failed to get device store: %w", err))
	}

	// Name shown under Linked Devices on the phone
	deviceName := opts.DeviceName
	if deviceName == "" {
		deviceName = "diff-notifier"
	}
	store.SetOSInfo(deviceName, [3]uint32{0, 1, 0})
	deviceStore.Platform = deviceName

	wac := &WhatsAppClient{
		Client:    whatsmeow.NewClient(deviceStore, whatsmeowLogger(log, "Client", opts.LogLevel)),
		Container: container,
		log:       log,
		connected: make(chan struct{}),
	}
	wac.Client.AddEventHandler(wac.handleConnectionEvents)

	return wac, nil
}

// whatsmeowLogger routes whatsmeow's own logging through our zerolog output
func whatsmeowLogger(log *logger.Logger, module, level string) waLog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	zl := log.Zerolog().With().Str("module", module).Logger().Level(lvl)
	return waLog.Zerolog(zl)
}

func (w *WhatsAppClient) handleConnectionEvents(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		w.connectedOnce.Do(func() { close(w.connected) })
		w.log.Debug("WhatsApp client connected")
	case *events.LoggedOut:
		w.log.Warnf("WhatsApp session logged out: %s", v.Reason.String())
	case *events.StreamError:
		w.log.Errorf("WhatsApp stream error: %v", v)
	}
}

// IsPaired reports whether the store holds a linked device session
func (w *WhatsAppClient) IsPaired() bool {
	return w.Client.Store.ID != nil
}

// Connect brings a stored session online and waits until it can send.
// It never starts QR authentication; use Pair for that.
func (w *WhatsAppClient) Connect(ctx context.Context) error {
	if !w.IsPaired() {
		return apperrors.NotPaired()
	}

	if err := w.Client.Connect(); err != nil {
		return fmt.Errorf("failed to connect client: %w", err)
	}

	return w.waitConnected(ctx)
}

func (w *WhatsAppClient) waitConnected(ctx context.Context) error {
	timer := time.NewTimer(connectTimeout)
	defer timer.Stop()

	select {
	case <-w.connected:
		return nil
	case <-timer.C:
		return fmt.Errorf("connection not established after %s", connectTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pair links this program as a new device by showing QR codes on out.
// An existing session is left untouched.
func (w *WhatsAppClient) Pair(ctx context.Context, out io.Writer) error {
	if w.IsPaired() {
		w.log.Infof("Already paired as %s", w.Client.Store.ID.String())
		return nil
	}

	for attempt := 1; attempt <= maxQRAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if attempt > 1 {
			w.log.Infof("Generating new QR code (attempt %d/%d)...", attempt, maxQRAttempts)
		}

		ok, err := w.pairOnce(ctx, out)
		if err != nil {
			return err
		}
		if ok {
			// The client reconnects by itself after pairing; wait so the session is stored
			if err := w.waitConnected(ctx); err != nil {
				return fmt.Errorf("paired but connection not established: %w", err)
			}
			w.log.Infof("WhatsApp pairing successful, device ID: %s", w.Client.Store.ID.String())
			return nil
		}

		w.log.Warn("QR code was not scanned, retrying")
	}

	return fmt.Errorf("failed to pair after %d attempts", maxQRAttempts)
}

// pairOnce shows QR codes until one is scanned or the channel gives up
func (w *WhatsAppClient) pairOnce(ctx context.Context, out io.Writer) (bool, error) {
	qrCtx, cancel := context.WithTimeout(ctx, qrTimeout)
	defer cancel()

	qrChan, err := w.Client.GetQRChannel(qrCtx)
	if err != nil {
		return false, fmt.Errorf("failed to get QR channel: %w", err)
	}

	if !w.Client.IsConnected() {
		if err := w.Client.Connect(); err != nil {
			return false, fmt.Errorf("failed to connect client: %w", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()

		case <-qrCtx.Done():
			return false, nil

		case evt, ok := <-qrChan:
			if !ok {
				return false, ctx.Err()
			}

			switch evt.Event {
			case whatsmeow.QRChannelEventCode:
				printQR(out, evt.Code)
			case whatsmeow.QRChannelSuccess.Event:
				w.log.Info("QR code scanned, completing pairing...")
				return true, nil
			case whatsmeow.QRChannelTimeout.Event:
				return false, nil
			case whatsmeow.QRChannelEventError:
				return false, fmt.Errorf("pairing failed: %w", evt.Error)
			default:
				w.log.Infof("Pairing event: %s", evt.Event)
			}
		}
	}
}

func printQR(out io.Writer, code string) {
	rule := strings.Repeat("=", 64)
	fmt.Fprintln(out, "\n"+rule)
	fmt.Fprintln(out, "SCAN QR CODE WITH WHATSAPP MOBILE APP")
	fmt.Fprintln(out, rule)

	qrterminal.GenerateWithConfig(code, qrterminal.Config{
		Level:      qrterminal.M,
		Writer:     out,
		HalfBlocks: true,
		QuietZone:  1,
	})

	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "You have %s to scan the QR code\n", qrTimeout)
	fmt.Fprintln(out, "Open WhatsApp > Settings > Linked Devices > Link a Device")
	fmt.Fprintln(out, rule+"\n")
}

// Disconnect closes the connection and the session store
func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
	if err := w.Container.Close(); err != nil {
		w.log.Error("Failed to close session store", err)
	}
	w.log.Debug("Disconnected from WhatsApp")
}

// SendText sends a text message to the specified JID
func (w *WhatsAppClient) SendText(ctx context.Context, toJID string, text string) error {
	jid, err := types.ParseJID(toJID)
	if err != nil {
		return fmt.Errorf("invalid JID %s: %w", toJID, err)
	}

	msg := &waE2E.Message{
		Conversation: proto.String(text),
	}

	if _, err := w.Client.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	w.log.Infof("Message sent to %s", toJID)
	return nil
}
