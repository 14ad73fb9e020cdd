package schema

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"github.com/goliatone/go-formflow/pkg/model"
)

// LoaderOptions configure document retrieval.
type LoaderOptions struct {
	// FileSystem backs fs sources. Required when loading SourceKindFS.
	FileSystem fs.FS
	// HTTPClient enables URL sources. A provided client is cloned so the
	// loader can apply its timeout without mutating the caller's client.
	HTTPClient *http.Client
	// AllowHTTPFallback constructs a default client when none is supplied.
	AllowHTTPFallback bool
	// RequestTimeout bounds each HTTP fetch.
	RequestTimeout time.Duration
}

// Loader retrieves schema documents from file, fs.FS, or HTTP sources.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// NewLoader constructs a Loader from pre-resolved options.
func NewLoader(options LoaderOptions) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        options.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
	}
}

// Load fetches a document from the provided source and wraps it.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema loader: source is nil")
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(ctx, src.Location())
	case SourceKindFS:
		data, err = loadFromFS(ctx, l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return Document{}, errors.New("schema loader: http support disabled")
		}
		data, err = loadHTTP(ctx, l.http, src.Location(), l.timeout)
	default:
		err = errors.New("schema loader: unsupported source kind")
	}
	if err != nil {
		return Document{}, err
	}

	return NewDocument(src, data)
}

// LoadForm fetches and decodes a source in one step.
func (l *Loader) LoadForm(ctx context.Context, src Source) (model.Form, error) {
	doc, err := l.Load(ctx, src)
	if err != nil {
		return model.Form{}, err
	}
	return doc.Form()
}
