package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/habitflow/habitflow-backend/internal/logger"
	"github.com/habitflow/habitflow-backend/internal/types"
)

// AvatarService renders an initials avatar for a new user and stores it in
// the local media directory. Wholly optional: when the font is not
// configured, main wires a nil service and registration proceeds without
// avatars.
type AvatarService interface {
	GenerateForUser(ctx context.Context, user *types.User) error
}

type avatarService struct {
	log      *logger.Logger
	mediaDir string
	fontFace font.Face
	palette  []color.NRGBA
}

const avatarRenderSize = 512
const avatarOutputSize = 256

var defaultPalette = []color.NRGBA{
	{R: 0x4C, G: 0xAF, B: 0x50, A: 0xFF},
	{R: 0x21, G: 0x96, B: 0xF3, A: 0xFF},
	{R: 0x9C, G: 0x27, B: 0xB0, A: 0xFF},
	{R: 0xF4, G: 0x43, B: 0x36, A: 0xFF},
	{R: 0xFF, G: 0x98, B: 0x00, A: 0xFF},
	{R: 0x00, G: 0x96, B: 0x88, A: 0xFF},
	{R: 0x3F, G: 0x51, B: 0xB5, A: 0xFF},
	{R: 0x79, G: 0x55, B: 0x48, A: 0xFF},
}

func NewAvatarService(log *logger.Logger) (AvatarService, error) {
	serviceLog := log.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("could not read avatar font: %w", err)
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse avatar font: %w", err)
	}
	face := truetype.NewFace(parsed, &truetype.Options{Size: 206})

	mediaDir := strings.TrimSpace(os.Getenv("AVATAR_MEDIA_DIR"))
	if mediaDir == "" {
		mediaDir = "media/avatars"
	}
	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create avatar media dir: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		mediaDir: mediaDir,
		fontFace: face,
		palette:  defaultPalette,
	}, nil
}

func (as *avatarService) GenerateForUser(ctx context.Context, user *types.User) error {
	if user == nil {
		return fmt.Errorf("user is nil")
	}

	bg := as.pickColor(user.Email)
	initials := initialsFor(user.FirstName, user.LastName)

	dc := gg.NewContext(avatarRenderSize, avatarRenderSize)
	dc.SetColor(bg)
	dc.Clear()
	dc.SetFontFace(as.fontFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials, avatarRenderSize/2, avatarRenderSize/2, 0.5, 0.5)

	scaled := image.NewRGBA(image.Rect(0, 0, avatarOutputSize, avatarOutputSize))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), dc.Image(), dc.Image().Bounds(), draw.Over, nil)

	key := fmt.Sprintf("%s.png", user.ID)
	path := filepath.Join(as.mediaDir, key)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create avatar file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, scaled); err != nil {
		return fmt.Errorf("could not encode avatar png: %w", err)
	}

	user.AvatarMediaKey = key
	user.AvatarURL = "/media/avatars/" + key
	user.AvatarColorHex = fmt.Sprintf("#%02X%02X%02X", bg.R, bg.G, bg.B)
	as.log.Debug("Generated avatar", "key", key)
	return nil
}

func (as *avatarService) pickColor(seed string) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(seed)))
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func initialsFor(first, last string) string {
	var b strings.Builder
	if first = strings.TrimSpace(first); first != "" {
		b.WriteString(strings.ToUpper(first[:1]))
	}
	if last = strings.TrimSpace(last); last != "" {
		b.WriteString(strings.ToUpper(last[:1]))
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}
