// Command nesemu is an ebiten front-end for the emulator core in
// internal/nes: it drives one EmulateFrame call per display tick, blits
// the resulting frame buffer to screen, and streams the audio samples
// through ebiten's audio context.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"

	"nesemu/internal/input"
	"nesemu/internal/nes"
)

const (
	screenWidth  = 256
	screenHeight = 240
	sampleRate   = 44100
)

type keyBinding struct {
	key    ebiten.Key
	button input.Button
}

// player1Keys and player2Keys mirror a conventional two-pad keyboard
// layout: WASD+JK for the first controller, arrows+NM for the second.
var player1Keys = []keyBinding{
	{ebiten.KeyW, input.ButtonUp},
	{ebiten.KeyS, input.ButtonDown},
	{ebiten.KeyA, input.ButtonLeft},
	{ebiten.KeyD, input.ButtonRight},
	{ebiten.KeyJ, input.ButtonA},
	{ebiten.KeyK, input.ButtonB},
	{ebiten.KeyEnter, input.ButtonStart},
	{ebiten.KeySpace, input.ButtonSelect},
}

var player2Keys = []keyBinding{
	{ebiten.KeyUp, input.ButtonUp},
	{ebiten.KeyDown, input.ButtonDown},
	{ebiten.KeyLeft, input.ButtonLeft},
	{ebiten.KeyRight, input.ButtonRight},
	{ebiten.KeyN, input.ButtonA},
	{ebiten.KeyM, input.ButtonB},
	{ebiten.KeyShiftRight, input.ButtonStart},
	{ebiten.KeyControlRight, input.ButtonSelect},
}

type game struct {
	nes    *nes.Nes
	img    *ebiten.Image
	rgba   []byte
	stream *sampleStream
}

func newGame(n *nes.Nes, volume float64, audioEnabled bool) (*game, error) {
	g := &game{
		nes:  n,
		img:  ebiten.NewImage(screenWidth, screenHeight),
		rgba: make([]byte, screenWidth*screenHeight*4),
	}
	if audioEnabled {
		ctx := audio.NewContext(sampleRate)
		g.stream = newSampleStream(volume)
		player, err := ctx.NewPlayer(g.stream)
		if err != nil {
			return nil, fmt.Errorf("create audio player: %w", err)
		}
		player.SetBufferSize(0)
		player.Play()
	}
	return g, nil
}

func (g *game) Update() error {
	g.pollInput()
	frame, samples := g.nes.EmulateFrame()
	rgbToRGBA(frame, g.rgba)
	g.img.WritePixels(g.rgba)
	if g.stream != nil {
		g.stream.push(samples)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func (g *game) pollInput() {
	for _, b := range player1Keys {
		g.nes.ControllerInput(1, b.button, ebiten.IsKeyPressed(b.key))
	}
	for _, b := range player2Keys {
		g.nes.ControllerInput(2, b.button, ebiten.IsKeyPressed(b.key))
	}
}

// rgbToRGBA expands the core's packed RGB8 frame buffer into the
// straight-alpha RGBA ebiten.Image.WritePixels expects.
func rgbToRGBA(rgb []byte, out []byte) {
	for i, j := 0, 0; i < len(rgb); i, j = i+3, j+4 {
		out[j] = rgb[i]
		out[j+1] = rgb[i+1]
		out[j+2] = rgb[i+2]
		out[j+3] = 0xFF
	}
}

func main() {
	romPath := flag.String("rom", "", "path to an iNES (.nes) ROM image")
	configPath := flag.String("config", "nesemu.json", "path to the config file")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: nesemu -rom path/to/game.nes")
		os.Exit(2)
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("read ROM: %v", err)
	}

	console, err := nes.New(romData)
	if err != nil {
		log.Fatalf("load cartridge: %v", err)
	}

	if savePath := saveFilePath(cfg.Paths.SaveData, *romPath); savePath != "" {
		if data, err := os.ReadFile(savePath); err == nil {
			console.LoadBatteryRAM(data)
		}
	}

	g, err := newGame(console, cfg.Audio.Volume, cfg.Audio.Enabled)
	if err != nil {
		log.Fatalf("init audio: %v", err)
	}

	ebiten.SetWindowSize(screenWidth*cfg.Window.Scale, screenHeight*cfg.Window.Scale)
	ebiten.SetWindowTitle("nesemu")

	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("run: %v", err)
	}

	if savePath := saveFilePath(cfg.Paths.SaveData, *romPath); savePath != "" {
		if data := console.Eject(); len(data) > 0 {
			if err := os.MkdirAll(cfg.Paths.SaveData, 0755); err != nil {
				log.Printf("save battery RAM: %v", err)
			} else if err := os.WriteFile(savePath, data, 0644); err != nil {
				log.Printf("save battery RAM: %v", err)
			}
		}
	}
}

func saveFilePath(dir, romPath string) string {
	if dir == "" {
		return ""
	}
	base := romPath
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '/' {
			base = base[i+1:]
			break
		}
	}
	for i := len(base) - 1; i >= 0; i-- {
		if base[i] == '.' {
			base = base[:i]
			break
		}
	}
	return dir + "/" + base + ".sav"
}
