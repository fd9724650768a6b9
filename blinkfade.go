//go:build js && wasm

package main

import (
	"fmt"

	"github.com/esimov/blinkfade/blinkfade"
)

func main() {
	c := blinkfade.NewCanvas()
	webcam, err := c.StartWebcam()
	if err != nil {
		c.Alert("Webcam not detected!")
	} else {
		err := webcam.Render()
		if err != nil {
			c.Alert(fmt.Sprint(err))
		}
	}
}
