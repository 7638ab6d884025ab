package upload

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/oncovoice/internal/testutil"
	usecaseErrors "github.com/johnquangdev/oncovoice/internal/usecase/errors"
	"github.com/johnquangdev/oncovoice/pkg/config"
	"github.com/johnquangdev/oncovoice/pkg/jwt"
)

func uploadConfig() config.UploadConfig {
	return config.UploadConfig{
		MaxAudioSizeMB:       1,
		MaxDocumentSizeMB:    2,
		AllowedAudioTypes:    []string{"audio/mpeg", "audio/mp3", "audio/mp4", "audio/x-m4a", "audio/wav", "audio/webm"},
		AllowedAudioExts:     []string{".mp3", ".m4a", ".wav", ".webm"},
		AllowedDocumentTypes: []string{"application/pdf"},
	}
}

func newService(t *testing.T) (*Service, *testutil.Storage) {
	t.Helper()
	storage := testutil.NewStorage("http://blob.local/oncovoice")
	svc := NewService(testutil.Catalog("http://docs.local"), storage, jwt.NewManager("secret", time.Minute), uploadConfig(), nil, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return svc, storage
}

func TestUploadAudio_StoresBytes(t *testing.T) {
	svc, storage := newService(t)
	payload := []byte("ID3-fake-mp3")

	out, err := svc.UploadAudio(context.Background(), AudioUpload{
		TeamID:      1,
		FileName:    "discussion.mp3",
		ContentType: "audio/mpeg",
		Size:        int64(len(payload)),
		Reader:      bytes.NewReader(payload),
	})

	require.NoError(t, err)
	assert.Equal(t, "team-1-audio-1700000000123.mp3", out.AudioFileName)
	assert.Equal(t, "http://blob.local/oncovoice/team-1-audio-1700000000123.mp3", out.AudioURL)
	assert.Equal(t, "audio/mpeg", out.AudioContentType)

	obj, ok := storage.Object(out.AudioFileName)
	require.True(t, ok)
	assert.Equal(t, payload, obj.Data)
}

func TestUploadAudio_GenericTypeFallsBackToExtension(t *testing.T) {
	svc, _ := newService(t)

	out, err := svc.UploadAudio(context.Background(), AudioUpload{
		TeamID:      2,
		FileName:    "Voice Memo.m4a",
		ContentType: "application/octet-stream",
		Size:        3,
		Reader:      strings.NewReader("abc"),
	})

	require.NoError(t, err)
	assert.Equal(t, "audio/mp4", out.AudioContentType)
	assert.True(t, strings.HasSuffix(out.AudioFileName, ".m4a"))
}

func TestUploadAudio_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		in      AudioUpload
		wantErr error
	}{
		{
			name:    "missing file",
			in:      AudioUpload{TeamID: 1},
			wantErr: usecaseErrors.ErrInvalidInput,
		},
		{
			name:    "unknown team",
			in:      AudioUpload{TeamID: 99, FileName: "a.mp3", ContentType: "audio/mpeg", Reader: strings.NewReader("a")},
			wantErr: usecaseErrors.ErrInvalidInput,
		},
		{
			name:    "disallowed audio type",
			in:      AudioUpload{TeamID: 1, FileName: "a.ogg", ContentType: "audio/ogg", Reader: strings.NewReader("a")},
			wantErr: usecaseErrors.ErrUnsupportedType,
		},
		{
			name:    "generic type with bad extension",
			in:      AudioUpload{TeamID: 1, FileName: "a.exe", ContentType: "application/octet-stream", Reader: strings.NewReader("a")},
			wantErr: usecaseErrors.ErrUnsupportedType,
		},
		{
			name:    "too large",
			in:      AudioUpload{TeamID: 1, FileName: "a.mp3", ContentType: "audio/mpeg", Size: 2 << 20, Reader: strings.NewReader("a")},
			wantErr: usecaseErrors.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, storage := newService(t)
			_, err := svc.UploadAudio(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, storage.Names())
		})
	}
}

func TestUploadAudio_StorageFailure(t *testing.T) {
	svc, storage := newService(t)
	storage.PutErr = errors.New("minio down")

	_, err := svc.UploadAudio(context.Background(), AudioUpload{
		TeamID: 1, FileName: "a.mp3", ContentType: "audio/mpeg", Size: 1, Reader: strings.NewReader("a"),
	})

	assert.ErrorIs(t, err, usecaseErrors.ErrStorage)
	assert.Contains(t, err.Error(), "minio down")
}

func TestIssueToken(t *testing.T) {
	svc, _ := newService(t)

	tok, err := svc.IssueToken(context.Background(), TokenRequest{Filename: "My Talk.MP3", TeamID: 3})
	require.NoError(t, err)

	assert.Equal(t, "team-3-my-talk-1700000000123.mp3", tok.Filename)
	assert.Equal(t, int64(1700000000123), tok.Timestamp)
	assert.Equal(t, "http://blob.local/oncovoice/team-3-my-talk-1700000000123.mp3", tok.PublicURL)
	assert.Contains(t, tok.UploadURL, tok.Filename)
	assert.NotEmpty(t, tok.ClientToken)
}

func TestIssueToken_Invalid(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.IssueToken(context.Background(), TokenRequest{Filename: "", TeamID: 1})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)

	_, err = svc.IssueToken(context.Background(), TokenRequest{Filename: "noext", TeamID: 1})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)

	_, err = svc.IssueToken(context.Background(), TokenRequest{Filename: "a.mp3", TeamID: 42})
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}

func TestCompleteUpload(t *testing.T) {
	svc, storage := newService(t)
	svc.now = time.Now

	tok, err := svc.IssueToken(context.Background(), TokenRequest{Filename: "source.pdf", TeamID: 1})
	require.NoError(t, err)

	_, err = svc.CompleteUpload(context.Background(), tok.ClientToken)
	assert.ErrorIs(t, err, usecaseErrors.ErrObjectMissing)

	_, err = storage.Put(context.Background(), tok.Filename, strings.NewReader("%PDF-1.7"), 8, "application/pdf")
	require.NoError(t, err)

	done, err := svc.CompleteUpload(context.Background(), tok.ClientToken)
	require.NoError(t, err)
	assert.Equal(t, tok.Filename, done.Pathname)
	assert.Equal(t, tok.PublicURL, done.URL)
	assert.Equal(t, "application/pdf", done.ContentType)
	assert.Equal(t, int64(8), done.Size)
}

func TestCompleteUpload_RejectsTypeAndToken(t *testing.T) {
	svc, storage := newService(t)
	svc.now = time.Now

	tok, err := svc.IssueToken(context.Background(), TokenRequest{Filename: "x.zip", TeamID: 1})
	require.NoError(t, err)
	_, err = storage.Put(context.Background(), tok.Filename, strings.NewReader("PK"), 2, "application/zip")
	require.NoError(t, err)

	_, err = svc.CompleteUpload(context.Background(), tok.ClientToken)
	assert.ErrorIs(t, err, usecaseErrors.ErrUnsupportedType)

	_, err = svc.CompleteUpload(context.Background(), "forged")
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidToken)

	_, err = svc.CompleteUpload(context.Background(), "")
	assert.ErrorIs(t, err, usecaseErrors.ErrInvalidInput)
}
