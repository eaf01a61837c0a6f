package mailer

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindle_sender/internal/config"
	"kindle_sender/internal/domain"
)

func testMailer(port int) *SMTPMailer {
	return NewSMTPMailer(config.SMTPConfig{
		Host:    "127.0.0.1",
		Port:    port,
		Timeout: time.Second,
		Subject: "Kindle Digest",
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func testProfile() domain.DeliveryProfile {
	return domain.DeliveryProfile{
		UserID:         "user-1",
		KindleEmail:    "reader@kindle.com",
		SenderEmail:    "sender@example.com",
		SenderPassword: "app-password",
	}
}

func testArtifact() *domain.Artifact {
	return &domain.Artifact{
		Title:    "Kindle Digest #3 · 2024-01-15",
		Filename: "kindle-digest-2024-01-15.epub",
		Content:  []byte("PK\x03\x04 not really a book"),
	}
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	msg, err := testMailer(587).buildMessage(testArtifact(), testProfile())
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "Subject: Kindle Digest")
	assert.Contains(t, raw, "sender@example.com")
	assert.Contains(t, raw, "reader@kindle.com")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, "Your reading digest is attached.")
	assert.Contains(t, raw, "application/epub+zip")
	assert.Contains(t, raw, "kindle-digest-2024-01-15.epub")
}

func TestBuildMessage_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		artifact *domain.Artifact
		profile  func(p *domain.DeliveryProfile)
	}{
		{
			name:     "nil artifact",
			artifact: nil,
		},
		{
			name:     "empty attachment",
			artifact: &domain.Artifact{Filename: "x.epub"},
		},
		{
			name:     "bad recipient",
			artifact: testArtifact(),
			profile:  func(p *domain.DeliveryProfile) { p.KindleEmail = "not an address" },
		},
		{
			name:     "bad sender",
			artifact: testArtifact(),
			profile:  func(p *domain.DeliveryProfile) { p.SenderEmail = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := testProfile()
			if tt.profile != nil {
				tt.profile(&profile)
			}

			msg, err := testMailer(587).buildMessage(tt.artifact, profile)
			assert.Error(t, err)
			assert.Nil(t, msg)
		})
	}
}

func TestSend_TransportErrorIsDeliveryFailure(t *testing.T) {
	t.Parallel()

	// grab a free port and close it so the dial is refused
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	err = testMailer(port).Send(context.Background(), testArtifact(), testProfile())
	require.Error(t, err)

	unitErr := domain.AsUnitError(err, domain.FailureUnexpected)
	assert.Equal(t, domain.FailureDelivery, unitErr.Kind)
	assert.True(t, strings.HasPrefix(unitErr.Error(), "Email failed: "))
}

func TestSend_InvalidMessageIsDeliveryFailure(t *testing.T) {
	t.Parallel()

	profile := testProfile()
	profile.KindleEmail = "@@"

	err := testMailer(587).Send(context.Background(), testArtifact(), profile)

	unitErr := domain.AsUnitError(err, domain.FailureUnexpected)
	assert.Equal(t, domain.FailureDelivery, unitErr.Kind)
}
