package transistor

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// TransferInfo is the transport-level record of one exchange.
type TransferInfo struct {
	URL          string
	StatusCode   int
	Proto        string
	ContentType  string
	TotalTime    time.Duration
	DNSLookup    time.Duration
	ConnTime     time.Duration
	TLSHandshake time.Duration
	ServerTime   time.Duration
	ConnReused   bool
	RemoteAddr   string
	HeaderSize   int
	SizeDownload int64
	Error        string
}

// Transfer is what the executor hands to the interpreter: transport facts plus the
// status line, header block and body as one payload. Raw is nil when no response arrived.
type Transfer struct {
	Info TransferInfo
	Raw  []byte
}

// Failed reports whether the exchange produced no response at all.
func (t Transfer) Failed() bool {
	return t.Raw == nil
}

// executor performs HTTP calls through resty with tracing on and retries off.
type executor struct {
	client *resty.Client
	logger zerolog.Logger
}

func newExecutor(httpClient *http.Client, logger zerolog.Logger) *executor {
	client := resty.NewWithClient(httpClient).
		SetRetryCount(0).
		SetLogger(restyLogger{logger: logger})

	return &executor{
		client: client,
		logger: logger,
	}
}

// execute sends the request and captures the response or the transport failure.
// HTTP error statuses are responses, not failures.
func (e *executor) execute(ctx context.Context, req Request, headers map[string]string) Transfer {
	start := time.Now()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	r := e.client.R().
		SetContext(ctx).
		EnableTrace().
		SetHeaders(headers)
	if req.Body != "" {
		r.SetBody([]byte(req.Body))
	}

	resp, err := r.Execute(req.Method, req.URL)
	info := TransferInfo{
		URL:       req.URL,
		TotalTime: time.Since(start),
	}

	if resp != nil && resp.Request != nil {
		trace := resp.Request.TraceInfo()
		info.DNSLookup = trace.DNSLookup
		info.ConnTime = trace.ConnTime
		info.TLSHandshake = trace.TLSHandshake
		info.ServerTime = trace.ServerTime
		info.ConnReused = trace.IsConnReused
		if trace.RemoteAddr != nil {
			info.RemoteAddr = trace.RemoteAddr.String()
		}
		if trace.TotalTime > info.TotalTime {
			info.TotalTime = trace.TotalTime
		}
	}

	if err != nil || resp == nil || resp.RawResponse == nil {
		if err == nil {
			err = ErrTransport
		}
		info.Error = err.Error()
		e.logger.Warn().
			Err(err).
			Str("uid", req.UID).
			Str("method", req.Method).
			Str("url", req.URL).
			Dur("elapsed", info.TotalTime).
			Msg("Transistor request failed before a response arrived")
		return Transfer{Info: info}
	}

	body := resp.Body()
	head := headerBlock(resp.Proto(), resp.Status(), resp.Header())

	info.StatusCode = resp.StatusCode()
	info.Proto = resp.Proto()
	info.ContentType = resp.Header().Get("Content-Type")
	info.HeaderSize = len(head)
	info.SizeDownload = int64(len(body))

	raw := make([]byte, 0, len(head)+len(body))
	raw = append(raw, head...)
	raw = append(raw, body...)

	return Transfer{Info: info, Raw: raw}
}

// headerBlock renders a response head the way it appears on the wire:
// status line, one line per header value, then a blank line.
func headerBlock(proto, status string, header http.Header) string {
	var b strings.Builder
	b.WriteString(proto)
	b.WriteByte(' ')
	b.WriteString(status)
	b.WriteString("\r\n")

	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range header[name] {
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(value)
			b.WriteString("\r\n")
		}
	}
	b.WriteString("\r\n")
	return b.String()
}

// restyLogger routes resty's own log lines into zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Debug().Str("component", "resty").Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Debug().Str("component", "resty").Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Trace().Str("component", "resty").Msgf(strings.TrimSpace(format), v...)
}
