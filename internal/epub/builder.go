package epub

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	goepub "github.com/go-shiori/go-epub"

	"kindle_sender/internal/config"
	"kindle_sender/internal/domain"
)

const stylesheetName = "digest.css"

var fontFamilies = map[domain.Font]string{
	domain.FontBookerly:  `"Bookerly", Georgia, serif`,
	domain.FontGeorgia:   `Georgia, serif`,
	domain.FontPalatino:  `"Palatino Linotype", Palatino, serif`,
	domain.FontHelvetica: `Helvetica, Arial, sans-serif`,
	domain.FontSerif:     `serif`,
	domain.FontSansSerif: `sans-serif`,
}

type Builder struct {
	label    string
	author   string
	language string
}

func NewBuilder(cfg config.EpubConfig) *Builder {
	return &Builder{
		label:    cfg.Label,
		author:   cfg.Author,
		language: cfg.Language,
	}
}

// Build renders one chapter per article in the given order. Any failure is
// returned as an epub_generation_failed unit error.
func (b *Builder) Build(articles []domain.Article, prefs domain.EpubPreferences, issue int, date time.Time) (*domain.Artifact, error) {
	if len(articles) == 0 {
		return nil, domain.EpubGenerationFailed(errors.New("no articles to render"))
	}

	stamp := date.Format("2006-01-02")
	title := fmt.Sprintf("%s #%d · %s", b.label, issue, stamp)

	book, err := goepub.NewEpub(title)
	if err != nil {
		return nil, domain.EpubGenerationFailed(fmt.Errorf("create book: %w", err))
	}
	book.SetAuthor(b.author)
	book.SetLang(b.language)

	cssPath, err := book.AddCSS(stylesheetDataURI(prefs.Font), stylesheetName)
	if err != nil {
		return nil, domain.EpubGenerationFailed(fmt.Errorf("add stylesheet: %w", err))
	}

	for i, article := range articles {
		chapter, err := renderChapter(article, prefs)
		if err != nil {
			return nil, domain.EpubGenerationFailed(fmt.Errorf("render article %d: %w", article.ID, err))
		}

		filename := fmt.Sprintf("chapter%03d.xhtml", i+1)
		if _, err := book.AddSection(chapter.body, chapter.title, filename, cssPath); err != nil {
			return nil, domain.EpubGenerationFailed(fmt.Errorf("add chapter %d: %w", i+1, err))
		}
	}

	var buf bytes.Buffer
	if _, err := book.WriteTo(&buf); err != nil {
		return nil, domain.EpubGenerationFailed(fmt.Errorf("write book: %w", err))
	}

	return &domain.Artifact{
		Title:    title,
		Filename: fmt.Sprintf("%s-%s.epub", slugify(b.label), stamp),
		Content:  buf.Bytes(),
	}, nil
}

func stylesheetDataURI(font domain.Font) string {
	family, ok := fontFamilies[font]
	if !ok {
		family = fontFamilies[domain.FontSerif]
	}

	css := fmt.Sprintf(`body { font-family: %s; line-height: 1.5; }
h1 { font-size: 1.4em; margin-bottom: 0.3em; }
p.meta { font-size: 0.85em; color: #555555; margin-top: 0; }
img { max-width: 100%%; height: auto; }
`, family)

	return "data:text/css;base64," + base64.StdEncoding.EncodeToString([]byte(css))
}

// hostOf returns the URL host without a leading "www.", or the raw URL when
// it cannot be parsed. Schemeless URLs are read as https.
func hostOf(raw string) string {
	trimmed := strings.TrimSpace(raw)
	u, err := url.Parse(trimmed)
	if (err != nil || u.Host == "") && !strings.Contains(trimmed, "://") {
		u, err = url.Parse("https://" + trimmed)
	}
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "digest"
	}
	return slug
}

func escape(s string) string {
	return html.EscapeString(s)
}
