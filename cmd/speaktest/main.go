package main

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"robotcar/config"
	"robotcar/hardware"
)

func main() {
	configDir := pflag.String("config", ".", "directory containing robotcar.yaml")
	pflag.Parse()

	cfg, err := config.LoadWithFlags(*configDir, pflag.CommandLine)
	if err != nil {
		log.Fatal(err)
	}
	text := strings.Join(pflag.Args(), " ")
	if text == "" {
		text = "This is my first sentence. And this is the second."
	}
	speaker := hardware.NewSpeaker(cfg.Speech)
	log.Print("Saying: ", text)
	speaker.Say(text)
	speaker.Wait()
}
