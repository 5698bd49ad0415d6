package ui

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Category groups file extensions for colour coding.
type Category string

const (
	CategorySource    Category = "source"
	CategoryDocuments Category = "documents"
	CategoryVideo     Category = "video"
	CategoryImages    Category = "images"
	CategoryAudio     Category = "audio"
	CategoryArchives  Category = "archives"
	CategoryBinaries  Category = "binaries"
	CategoryData      Category = "data"
	CategoryOther     Category = "other"
	CategoryNone      Category = "none"
)

var categoryByExt = map[string]Category{}

func init() {
	groups := map[Category][]string{
		CategorySource: {"go", "swift", "py", "js", "ts", "tsx", "jsx", "java", "kt", "c", "h",
			"cc", "cpp", "hpp", "m", "rs", "rb", "php", "cs", "sh", "lua", "scala", "sql"},
		CategoryDocuments: {"pdf", "doc", "docx", "txt", "md", "rtf", "odt", "pages",
			"xls", "xlsx", "ppt", "pptx", "key", "numbers", "epub"},
		CategoryVideo:    {"mp4", "mov", "avi", "mkv", "wmv", "flv", "webm", "m4v", "mpg", "mpeg"},
		CategoryImages:   {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "tif", "heic", "webp", "svg", "raw", "psd", "ico"},
		CategoryAudio:    {"mp3", "wav", "aac", "flac", "m4a", "ogg", "wma", "aiff"},
		CategoryArchives: {"zip", "tar", "gz", "tgz", "bz2", "xz", "7z", "rar", "zst", "dmg", "iso"},
		CategoryBinaries: {"exe", "dll", "so", "dylib", "bin", "app", "msi", "o", "a", "lib", "class", "jar"},
		CategoryData:     {"json", "xml", "yaml", "yml", "csv", "db", "sqlite", "log", "parquet", "plist", "toml"},
	}
	for cat, exts := range groups {
		for _, e := range exts {
			categoryByExt[e] = cat
		}
	}
}

var categoryColors = map[Category]string{
	CategorySource:    "#007AFF",
	CategoryDocuments: "#34C759",
	CategoryVideo:     "#FF3B30",
	CategoryImages:    "#AF52DE",
	CategoryAudio:     "#00C7BE",
	CategoryArchives:  "#FF9500",
	CategoryBinaries:  "#5856D6",
	CategoryData:      "#FF2D55",
	CategoryOther:     "#8E8E93",
	CategoryNone:      "#9E9E9E",
}

// CategoryOf classifies an extension given without the leading dot.
func CategoryOf(ext string) Category {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return CategoryNone
	}
	if c, ok := categoryByExt[ext]; ok {
		return c
	}
	return CategoryOther
}

// DirColor returns a muted colour whose hue is derived from the directory
// name, so a directory keeps its colour across scans.
func DirColor(name string) colorful.Color {
	hue := float64(xxhash.Sum64String(name) % 360)
	return colorful.Hsv(hue, 0.35, 0.55)
}

// ColorFor returns the fill colour of a treemap cell.
func ColorFor(name, ext string, isDir bool) lipgloss.Color {
	if isDir {
		return lipgloss.Color(DirColor(name).Hex())
	}
	return lipgloss.Color(categoryColors[CategoryOf(ext)])
}

// Shade darkens or lightens a hex colour by moving it towards black (f < 0)
// or white (f > 0). Invalid input is returned unchanged.
func Shade(hex lipgloss.Color, f float64) lipgloss.Color {
	c, err := colorful.Hex(string(hex))
	if err != nil {
		return hex
	}
	target := colorful.Color{R: 1, G: 1, B: 1}
	if f < 0 {
		target = colorful.Color{}
		f = -f
	}
	if f > 1 {
		f = 1
	}
	return lipgloss.Color(c.BlendRgb(target, f).Clamped().Hex())
}

// LabelColor picks black or white text for legibility on bg.
func LabelColor(bg lipgloss.Color) lipgloss.Color {
	c, err := colorful.Hex(string(bg))
	if err != nil {
		return lipgloss.Color("#ffffff")
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return lipgloss.Color("#111111")
	}
	return lipgloss.Color("#ffffff")
}
