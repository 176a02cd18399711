package engine_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agewidget/internal/config"
	"github.com/tartampluch/go-agewidget/internal/engine"
)

// MockFetcher simulates the network layer for unit tests using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the engine.VCardFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	// Return nil interface safely
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestImport_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(sampleVCard), 0o600))

	im := &engine.Importer{}
	people, err := im.Import(context.Background(), engine.ContactsSource{
		Mode:      config.ContactsModeLocal,
		LocalPath: path,
	})

	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, engine.Person{Name: "Test", DOB: "1990-10-25"}, people[0])
}

func TestImport_Web(t *testing.T) {
	mockFetcher := new(MockFetcher)
	mockFetcher.On("Fetch", mock.Anything, "https://dav.example.com/contacts", "family", "s3cret").
		Return(io.NopCloser(strings.NewReader(sampleVCard)), nil)

	im := &engine.Importer{Fetcher: mockFetcher}
	people, err := im.Import(context.Background(), engine.ContactsSource{
		Mode:    config.ContactsModeWeb,
		WebURL:  "https://dav.example.com/contacts",
		WebUser: "family",
		WebPass: "s3cret",
	})

	require.NoError(t, err)
	assert.Len(t, people, 1)
	mockFetcher.AssertExpectations(t)
}

func TestImport_Web_FetchError(t *testing.T) {
	mockFetcher := new(MockFetcher)
	mockFetcher.On("Fetch", mock.Anything, "https://dav.example.com", "", "").
		Return(nil, errors.New("connection refused"))

	im := &engine.Importer{Fetcher: mockFetcher}
	_, err := im.Import(context.Background(), engine.ContactsSource{
		Mode:   config.ContactsModeWeb,
		WebURL: "https://dav.example.com",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrContactsLoad)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestImport_ConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		im      *engine.Importer
		src     engine.ContactsSource
		wantErr string
	}{
		{"Local path empty", &engine.Importer{}, engine.ContactsSource{Mode: config.ContactsModeLocal}, config.ErrLocalPathEmpty},
		{"Web URL empty", &engine.Importer{Fetcher: new(MockFetcher)}, engine.ContactsSource{Mode: config.ContactsModeWeb}, config.ErrWebURLEmpty},
		{"Fetcher missing", &engine.Importer{}, engine.ContactsSource{Mode: config.ContactsModeWeb, WebURL: "https://x"}, config.ErrFetcherMissing},
		{"Unknown mode", &engine.Importer{}, engine.ContactsSource{Mode: "carrier-pigeon"}, config.ErrModeUnsupport},
		{"Missing file", &engine.Importer{}, engine.ContactsSource{Mode: config.ContactsModeLocal, LocalPath: "/nonexistent/contacts.vcf"}, config.ErrContactsLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.im.Import(context.Background(), tt.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodePeople_Formats(t *testing.T) {
	stream := strings.Join([]string{
		"BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Iso\r\nBDAY:1990-10-25\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Basic\r\nBDAY:19850704\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Stamp\r\nBDAY:1970-01-02T00:00:00Z\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nN:Doe;Jane;;;\r\nBDAY:2001-03-04\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nBDAY:2002-05-06\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:NoYear\r\nBDAY:--0412\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Garbage\r\nBDAY:someday\r\nEND:VCARD",
		"BEGIN:VCARD\r\nVERSION:4.0\r\nFN:NoBday\r\nEND:VCARD",
	}, "\r\n") + "\r\n"

	people, err := engine.DecodePeople(context.Background(), strings.NewReader(stream))
	require.NoError(t, err)

	assert.Equal(t, []engine.Person{
		{Name: "Iso", DOB: "1990-10-25"},
		{Name: "Basic", DOB: "1985-07-04"},
		{Name: "Stamp", DOB: "1970-01-02"},
		{Name: "Doe;Jane;;;", DOB: "2001-03-04"},
		{Name: "", DOB: "2002-05-06"},
	}, people)
}

func TestDecodePeople_Empty(t *testing.T) {
	people, err := engine.DecodePeople(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestDecodePeople_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.DecodePeople(ctx, strings.NewReader(sampleVCard))
	assert.ErrorIs(t, err, context.Canceled)
}

// failingReader returns its error on every read.
type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestDecodePeople_ReaderFailure(t *testing.T) {
	reset := errors.New("connection reset")
	stream := io.MultiReader(strings.NewReader(sampleVCard+"\r\n"), failingReader{err: reset})

	done := make(chan error, 1)
	go func() {
		_, err := engine.DecodePeople(context.Background(), stream)
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, reset)
		assert.Contains(t, err.Error(), config.ErrContactsLoad)
	case <-time.After(2 * time.Second):
		t.Fatal("DecodePeople kept looping on a failed reader")
	}
}

func TestImport_Web_BodyFailure(t *testing.T) {
	reset := errors.New("connection reset")
	body := io.NopCloser(io.MultiReader(strings.NewReader(sampleVCard+"\r\n"), failingReader{err: reset}))

	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://dav.example.com/c.vcf", "u", "p").Return(body, nil)

	im := &engine.Importer{Fetcher: fetcher}
	people, err := im.Import(context.Background(), engine.ContactsSource{
		Mode:    config.ContactsModeWeb,
		WebURL:  "https://dav.example.com/c.vcf",
		WebUser: "u",
		WebPass: "p",
	})
	assert.ErrorIs(t, err, reset)
	assert.Nil(t, people)
	fetcher.AssertExpectations(t)
}
