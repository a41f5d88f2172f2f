package whatsapp

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/nahidhasan98/changelog-notifier/internal/logger"
	"github.com/nahidhasan98/changelog-notifier/internal/validation"
)

// Options configures the WhatsApp client
type Options struct {
	DSN        string // sqlite session store
	LogLevel   string
	DeviceName string
	Recipient  string // JID that receives changelogs
	QRWriter   io.Writer
}

// Client wraps the whatsmeow client and publishes changelogs to one recipient
type Client struct {
	client    *whatsmeow.Client
	container *sqlstore.Container
	recipient types.JID
	qrOut     io.Writer
	log       *logger.Logger

	// Reconnection handling
	isConnected     bool
	reconnectMutex  sync.RWMutex
	reconnectConfig ReconnectConfig
	cancelReconnect context.CancelFunc
}

// ReconnectConfig holds configuration for automatic reconnection
type ReconnectConfig struct {
	MaxRetries      int           // Maximum number of reconnection attempts
	InitialInterval time.Duration // Initial retry interval
	MaxInterval     time.Duration // Maximum retry interval
	Multiplier      float64       // Backoff multiplier
}

// NewClient creates a WhatsApp client backed by a sqlite session store
func NewClient(ctx context.Context, opts Options, log *logger.Logger) (*Client, error) {
	if !validation.New().IsValidJID(opts.Recipient) {
		return nil, fmt.Errorf("invalid recipient JID format: %s", opts.Recipient)
	}

	recipient, err := types.ParseJID(opts.Recipient)
	if err != nil {
		return nil, fmt.Errorf("invalid recipient JID %s: %w", opts.Recipient, err)
	}

	dbLog := waLog.Stdout("Database", opts.LogLevel, true)
	container, err := sqlstore.New(ctx, "sqlite3", opts.DSN, dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device store: %w", err)
	}

	// Name shown in WhatsApp's linked devices
	deviceName := opts.DeviceName
	if deviceName == "" {
		deviceName = "macOS"
	}
	store.SetOSInfo(deviceName, [3]uint32{0, 1, 0})
	deviceStore.Platform = deviceName

	qrOut := opts.QRWriter
	if qrOut == nil {
		qrOut = os.Stdout
	}

	c := &Client{
		client:    whatsmeow.NewClient(deviceStore, waLog.Stdout("Client", opts.LogLevel, true)),
		container: container,
		recipient: recipient,
		qrOut:     qrOut,
		log:       log.With("component", "whatsapp"),
		reconnectConfig: ReconnectConfig{
			MaxRetries:      10,
			InitialInterval: 5 * time.Second,
			MaxInterval:     5 * time.Minute,
			Multiplier:      1.5,
		},
	}

	c.client.AddEventHandler(c.handleConnectionEvents)

	return c, nil
}

// handleConnectionEvents tracks connection state and starts reconnection
func (c *Client) handleConnectionEvents(evt interface{}) {
	switch v := evt.(type) {
	case *events.Connected:
		c.reconnectMutex.Lock()
		c.isConnected = true
		if c.cancelReconnect != nil {
			c.cancelReconnect()
			c.cancelReconnect = nil
		}
		c.reconnectMutex.Unlock()
		c.log.Info("WhatsApp client connected")

	case *events.Disconnected:
		c.reconnectMutex.Lock()
		c.isConnected = false
		shouldReconnect := c.cancelReconnect == nil
		c.reconnectMutex.Unlock()

		c.log.Warn("WhatsApp client disconnected")
		if shouldReconnect {
			go c.startReconnection()
		}

	case *events.LoggedOut:
		c.reconnectMutex.Lock()
		c.isConnected = false
		c.reconnectMutex.Unlock()
		c.log.Warnf("WhatsApp session logged out (reason %v), a new QR login is required", v.Reason)

	case *events.StreamError:
		c.log.Errorf("WhatsApp stream error: %v", v)
	}
}

// startReconnection retries the connection with exponential backoff
func (c *Client) startReconnection() {
	c.reconnectMutex.Lock()
	if c.isConnected || c.cancelReconnect != nil {
		c.reconnectMutex.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancelReconnect = cancel
	c.reconnectMutex.Unlock()

	defer func() {
		c.reconnectMutex.Lock()
		c.cancelReconnect = nil
		c.reconnectMutex.Unlock()
	}()

	interval := c.reconnectConfig.InitialInterval

	for attempt := 1; attempt <= c.reconnectConfig.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			c.log.Info("Reconnection cancelled")
			return
		case <-time.After(interval):
			if c.client.IsConnected() {
				c.reconnectMutex.Lock()
				c.isConnected = true
				c.reconnectMutex.Unlock()
				return
			}

			c.log.Infof("Reconnection attempt %d/%d", attempt, c.reconnectConfig.MaxRetries)

			if err := c.client.Connect(); err != nil {
				c.log.Errorf("Reconnection attempt %d failed: %v", attempt, err)
				interval = nextInterval(interval, c.reconnectConfig)
				continue
			}

			c.log.Info("Successfully reconnected to WhatsApp")
			return
		}
	}

	c.log.Error("All reconnection attempts failed", nil)
}

func nextInterval(current time.Duration, cfg ReconnectConfig) time.Duration {
	next := time.Duration(float64(current) * cfg.Multiplier)
	if next > cfg.MaxInterval {
		return cfg.MaxInterval
	}
	return next
}

// Connect connects the client. Without a stored session it starts QR login
// in the background and returns immediately.
func (c *Client) Connect(ctx context.Context) error {
	c.reconnectMutex.Lock()
	defer c.reconnectMutex.Unlock()

	if c.client.Store.ID == nil {
		c.log.Info("No existing session found, starting QR authentication...")
		go c.authenticateWithQR(ctx)
		return nil
	}

	c.log.Info("Existing session found. Connecting...")
	if err := c.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect client: %w", err)
	}

	c.isConnected = true
	c.log.Infof("Connected to WhatsApp as device %s", c.client.Store.ID.String())
	return nil
}

// authenticateWithQR handles QR code authentication in a loop
func (c *Client) authenticateWithQR(ctx context.Context) {
	const (
		maxAttempts  = 5
		attemptDelay = 5 * time.Second
	)

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if attempt > 1 {
			c.log.Infof("Generating new QR code (attempt %d/%d)...", attempt, maxAttempts)
			time.Sleep(attemptDelay)
		}

		qrCtx, qrCancel := context.WithTimeout(ctx, 60*time.Second)

		qrChan, err := c.client.GetQRChannel(qrCtx)
		if err != nil {
			qrCancel()
			c.log.Errorf("Failed to get QR channel: %v", err)
			continue
		}

		if !c.client.IsConnected() {
			if err := c.client.Connect(); err != nil {
				qrCancel()
				c.log.Errorf("Failed to connect client: %v", err)
				continue
			}
		}

		authSuccess, cancelled := c.handleQREvents(ctx, qrCtx, qrChan)
		qrCancel()

		if cancelled {
			c.log.Info("QR authentication cancelled")
			return
		}

		if authSuccess {
			c.reconnectMutex.Lock()
			c.isConnected = true
			c.reconnectMutex.Unlock()

			c.log.Info("WhatsApp authentication successful")
			return
		}

		c.log.Warn("QR code authentication failed, will retry with new QR code...")
	}

	c.log.Error("Failed to authenticate after multiple attempts", nil)
}

// handleQREvents processes QR code events and returns (success, cancelled)
func (c *Client) handleQREvents(parentCtx, qrCtx context.Context, qrChan <-chan whatsmeow.QRChannelItem) (bool, bool) {
	for {
		select {
		case <-parentCtx.Done():
			return false, true

		case <-qrCtx.Done():
			c.log.Warn("QR code timed out without being scanned")
			return false, false

		case evt, ok := <-qrChan:
			if !ok {
				select {
				case <-parentCtx.Done():
					return false, true
				default:
					return false, false
				}
			}

			switch evt.Event {
			case "code":
				c.renderQR(evt.Code)
			case "success":
				c.log.Info("QR code scanned, completing authentication...")
				return true, false
			case "timeout":
				c.log.Warn("QR code expired, generating new one...")
				return false, false
			default:
				c.log.Infof("Authentication event: %s", evt.Event)
			}
		}
	}
}

func (c *Client) renderQR(code string) {
	rule := strings.Repeat("=", 64)
	fmt.Fprintln(c.qrOut, "\n"+rule)
	fmt.Fprintln(c.qrOut, "Scan this QR code to let changelog-notifier publish to WhatsApp")
	fmt.Fprintln(c.qrOut, rule)

	qrterminal.GenerateWithConfig(code, qrterminal.Config{
		Level:      qrterminal.M,
		Writer:     c.qrOut,
		HalfBlocks: true,
		QuietZone:  1,
	})

	fmt.Fprintln(c.qrOut, rule)
	fmt.Fprintln(c.qrOut, "WhatsApp > Settings > Linked Devices > Link a Device (60 seconds)")
	fmt.Fprintln(c.qrOut, rule+"\n")
}

// Disconnect disconnects the WhatsApp client
func (c *Client) Disconnect() {
	c.reconnectMutex.Lock()
	defer c.reconnectMutex.Unlock()

	if c.cancelReconnect != nil {
		c.cancelReconnect()
		c.cancelReconnect = nil
	}

	c.client.Disconnect()
	c.isConnected = false
	c.log.Info("Disconnected from WhatsApp")
}

// IsConnected reports whether messages can be sent right now
func (c *Client) IsConnected() bool {
	c.reconnectMutex.RLock()
	defer c.reconnectMutex.RUnlock()

	return c.isConnected && c.client.IsConnected() && c.client.Store.ID != nil
}

// EnsureConnected connects the client when it is not connected
func (c *Client) EnsureConnected(ctx context.Context) error {
	if c.IsConnected() {
		return nil
	}

	c.log.Info("Client not connected, attempting to connect...")
	if err := c.Connect(ctx); err != nil {
		return err
	}
	if !c.IsConnected() {
		return fmt.Errorf("whatsapp session is not authenticated yet")
	}
	return nil
}

// sendText sends a single text message
func (c *Client) sendText(ctx context.Context, to types.JID, text string) error {
	msg := &waE2E.Message{
		Conversation: proto.String(text),
	}

	if _, err := c.client.SendMessage(ctx, to, msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
