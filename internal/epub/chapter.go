package epub

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"kindle_sender/internal/domain"
)

const metaSeparator = " · "

type chapter struct {
	title string
	body  string
}

func renderChapter(article domain.Article, prefs domain.EpubPreferences) (chapter, error) {
	content := ""
	if article.Content != nil {
		content = *article.Content
	}

	if !prefs.IncludeImages {
		stripped, err := stripImages(content)
		if err != nil {
			return chapter{}, fmt.Errorf("strip images: %w", err)
		}
		content = stripped
	}

	title := chapterTitle(article, prefs)

	var b strings.Builder
	b.WriteString("<h1>")
	b.WriteString(escape(title))
	b.WriteString("</h1>\n")
	if meta := metadataLine(article, prefs); meta != "" {
		b.WriteString(`<p class="meta">`)
		b.WriteString(escape(meta))
		b.WriteString("</p>\n")
	}
	b.WriteString(content)

	return chapter{title: title, body: b.String()}, nil
}

func chapterTitle(article domain.Article, prefs domain.EpubPreferences) string {
	title := hostOf(article.URL)
	if article.Title != nil && strings.TrimSpace(*article.Title) != "" {
		title = strings.TrimSpace(*article.Title)
	}

	if prefs.ShowReadTime && article.ReadTimeMinutes != nil {
		title += fmt.Sprintf("%s%d min", metaSeparator, *article.ReadTimeMinutes)
	}

	return title
}

// metadataLine is returned unescaped.
func metadataLine(article domain.Article, prefs domain.EpubPreferences) string {
	var parts []string

	if prefs.ShowAuthor && article.Author != nil && strings.TrimSpace(*article.Author) != "" {
		parts = append(parts, strings.TrimSpace(*article.Author))
	} else {
		parts = append(parts, hostOf(article.URL))
	}

	if prefs.ShowReadTime && article.ReadTimeMinutes != nil {
		parts = append(parts, fmt.Sprintf("%d min read", *article.ReadTimeMinutes))
	}

	if prefs.ShowPublishedDate && article.PublishedAt != nil {
		parts = append(parts, article.PublishedAt.Format("Jan 2, 2006"))
	}

	return strings.Join(parts, metaSeparator)
}

func stripImages(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}

	doc.Find("img, picture, source, svg image").Remove()

	// figures left empty are dropped as well
	doc.Find("figure").Each(func(_ int, fig *goquery.Selection) {
		if strings.TrimSpace(fig.Text()) == "" {
			fig.Remove()
		}
	})

	return doc.Find("body").Html()
}
