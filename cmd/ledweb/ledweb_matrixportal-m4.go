//go:build matrixportal_m4

package main

import (
	"context"
	"io"
	"machine"
	"os"
	"time"

	"github.com/ajanata/textbuf"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/drivers/ws2812"
	"tinygo.org/x/tinyfs/littlefs"

	"github.com/ajanata/ledweb-hardware/internal/config"
	"github.com/ajanata/ledweb-hardware/internal/ledctl"
	"github.com/ajanata/ledweb-hardware/internal/logger"
	"github.com/ajanata/ledweb-hardware/internal/netboot"
	"github.com/ajanata/ledweb-hardware/internal/reach"
	"github.com/ajanata/ledweb-hardware/internal/status"
	"github.com/ajanata/ledweb-hardware/internal/web"
)

const settingsFile = "/settings.yaml"

// display rows for the connectivity status
const (
	connectRow = 6
	ssidRow    = 7
)

var (
	// set from a config.go init() when there is no settings file on flash
	wifiSSID     string
	wifiPassword string
)

func main() {
	time.Sleep(time.Second)
	blink()

	// turn off the NeoPixel
	machine.NEOPIXEL.Configure(machine.PinConfig{Mode: machine.PinOutput})
	np := ws2812.New(machine.NEOPIXEL)
	pixel := ledctl.NewPixel(np)
	pixel.Set(false)

	err := machine.I2C0.Configure(machine.I2CConfig{
		SCL:       machine.I2C0_SCL_PIN,
		SDA:       machine.I2C0_SDA_PIN,
		Frequency: 3.6 * machine.MHz,
	})
	if err != nil {
		earlyPanic(err)
	}
	blink()

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3D, VccState: ssd1306.SWITCHCAPVCC})
	dev.ClearBuffer()
	dev.ClearDisplay()
	blink()

	buf, err := textbuf.New(&dev, textbuf.FontSize6x8)
	if err != nil {
		earlyPanic(err)
	}
	buf.AutoFlush = true

	cfg, err := loadConfig(buf)
	if err != nil {
		earlyPanic(err)
	}
	log := logger.New(cfg.Log.Level)

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})

	_ = buf.Println("Wifi: " + cfg.WiFi.SSID)
	err = run(context.Background(), cfg, board{
		radio:   netboot.NewNetlinkRadio(),
		outputs: []ledctl.Output{led, pixel},
		pinger:  reach.NewDial(),
		sink: status.Multi{
			status.NewTextSink(
				func(s string) error { return buf.SetLine(connectRow, s) },
				func(s string) error { return buf.SetLine(ssidRow, s) },
				log,
			),
			status.NewLogSink(log),
		},
		static: staticFiles(cfg),
		reset:  machine.CPUReset,
		log:    log,
	})
	// only association or config errors get here
	earlyPanic(err)
}

var lfs = littlefs.New(machine.Flash)

// loadConfig reads settings.yaml from flash when there is one; otherwise only the compiled-in
// credentials and defaults apply.
func loadConfig(buf *textbuf.Buffer) (*config.Config, error) {
	getenv := func(key string) string {
		switch key {
		case config.KeyWiFiSSID:
			if wifiSSID != "" {
				return wifiSSID
			}
		case config.KeyWiFiPassword:
			if wifiPassword != "" {
				return wifiPassword
			}
		}
		return os.Getenv(key)
	}

	var settings io.Reader
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 512,
		BlockCycles:   100,
	})
	if err := lfs.Mount(); err != nil {
		_ = buf.Println("FS: none")
	} else if f, err := lfs.Open(settingsFile); err == nil {
		defer f.Close()
		settings = f
		_ = buf.Println("FS: settings")
	}

	cfg, err := config.Load(settings, getenv)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func staticFiles(cfg *config.Config) web.Files {
	return web.LittleFS(lfs, cfg.Server.StaticDir)
}

func blink() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()
	time.Sleep(100 * time.Millisecond)
	led.Low()
	time.Sleep(100 * time.Millisecond)
}

func earlyPanic(err error) {
	for i := 0; ; i++ {
		blink()
		if i%5 == 0 {
			println(err.Error())
		}
	}
}
