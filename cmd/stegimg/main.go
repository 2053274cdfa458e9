// stegimg — LSB image steganography from the command line.
//
// Usage:
//
//	stegimg hide -i <carrier> -o <output> -m <message>
//	stegimg extract -i <image> [--speak]
//	stegimg info -i <image>
//	stegimg sample -o <output> [--width N] [--height N]
//	stegimg hex encode -t <text> -o <file>
//	stegimg hex decode -i <file>
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"imagestego-backend/hexio"
	"imagestego-backend/imaging"
	"imagestego-backend/models"
	"imagestego-backend/stego"
	"imagestego-backend/tts"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "hide":
		err = runHide(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "sample":
		err = runSample(os.Args[2:])
	case "hex":
		err = runHex(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func codecFlags(fs *pflag.FlagSet) *models.StegoConfig {
	conf := models.NewStegoConfig()
	fs.StringVar(&conf.Delimiter, "delimiter", conf.Delimiter, "sentinel string marking the end of the hidden message")
	fs.BoolVarP(&conf.Verbose, "verbose", "v", false, "log codec diagnostics")
	return conf
}

func runHide(args []string) error {
	fs := pflag.NewFlagSet("hide", pflag.ExitOnError)
	var input, output, message string
	fs.StringVarP(&input, "input", "i", "", "carrier image path (PNG, BMP or JPEG)")
	fs.StringVarP(&output, "output", "o", "", "output image path (.png or .bmp)")
	fs.StringVarP(&message, "message", "m", "", "text to hide")
	conf := codecFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" || output == "" || message == "" {
		return fmt.Errorf("hide requires --input, --output and --message")
	}

	carrier, err := imaging.Load(input)
	if err != nil {
		return err
	}

	codec := stego.NewLSBSteganography(conf)
	stegoSamples, err := codec.Embed(carrier.Samples, []byte(message))
	if err != nil {
		return err
	}

	stegoCarrier, err := carrier.WithSamples(stegoSamples)
	if err != nil {
		return err
	}
	if err := imaging.Save(stegoCarrier, output); err != nil {
		return err
	}

	psnr := imaging.CalculatePSNR(carrier.Samples, stegoSamples)
	fmt.Printf("Message successfully hidden in %s\n", output)
	fmt.Printf("Hidden %d characters (%d bits of %d available, PSNR %.2f dB)\n",
		len(message), codec.RequiredBits(len(message)), carrier.CapacityBits(), psnr)
	return nil
}

func runExtract(args []string) error {
	fs := pflag.NewFlagSet("extract", pflag.ExitOnError)
	var input string
	var speak bool
	fs.StringVarP(&input, "input", "i", "", "image path to extract from")
	fs.BoolVar(&speak, "speak", false, "speak the extracted message via espeak")
	conf := codecFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("extract requires --input")
	}

	carrier, err := imaging.Load(input)
	if err != nil {
		return err
	}

	codec := stego.NewLSBSteganography(conf)
	recovered, err := codec.Extract(carrier.Samples)
	if err != nil {
		return err
	}

	message := string(recovered)
	fmt.Println(message)

	if speak {
		var speaker tts.Speaker = tts.NewEspeakEngine()
		if err := tts.CheckAvailability(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: espeak not found, playing notification tone instead\n")
			speaker = tts.NewToneSpeaker()
		}
		spokenText := message
		if spokenText == "" {
			spokenText = "No hidden message found"
		}
		if err := speaker.Speak(context.Background(), spokenText); err != nil {
			fmt.Fprintf(os.Stderr, "warning: playback failed: %v\n", err)
		}
	}
	return nil
}

func runInfo(args []string) error {
	fs := pflag.NewFlagSet("info", pflag.ExitOnError)
	var input string
	fs.StringVarP(&input, "input", "i", "", "image path to inspect")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if input == "" {
		return fmt.Errorf("info requires --input")
	}

	info, err := imaging.InspectFile(input)
	if err != nil {
		return err
	}

	fmt.Printf("Dimensions : %dx%d (%d channels, %s)\n", info.Width, info.Height, info.Channels, info.Format)
	fmt.Printf("Pixels     : %d\n", info.TotalPixels)
	fmt.Printf("Capacity   : %d bits (~%d characters)\n", info.CapacityBits, info.MaxCharacters)
	return nil
}

func runSample(args []string) error {
	fs := pflag.NewFlagSet("sample", pflag.ExitOnError)
	var output string
	var width, height int
	fs.StringVarP(&output, "output", "o", "sample_image.png", "output path (.png or .bmp)")
	fs.IntVar(&width, "width", imaging.DefaultSampleWidth, "image width in pixels")
	fs.IntVar(&height, "height", imaging.DefaultSampleHeight, "image height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}

	carrier, err := imaging.WriteSample(output, width, height)
	if err != nil {
		return err
	}

	fmt.Printf("Sample image created: %s (%dx%d, capacity %d bits)\n",
		output, carrier.Width, carrier.Height, carrier.CapacityBits())
	return nil
}

func runHex(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("hex requires a subcommand: encode or decode")
	}

	switch args[0] {
	case "encode":
		fs := pflag.NewFlagSet("hex encode", pflag.ExitOnError)
		var text, output string
		fs.StringVarP(&text, "text", "t", "", "text to encode")
		fs.StringVarP(&output, "output", "o", "hex_output.txt", "output file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if text == "" {
			return fmt.Errorf("hex encode requires --text")
		}
		size, err := hexio.EncodeToFile(text, output)
		if err != nil {
			return err
		}
		fmt.Printf("Data has been saved in hex format.\n")
		fmt.Printf("File name : %s\n", output)
		fmt.Printf("File size : %d bytes\n", size)
		return nil
	case "decode":
		fs := pflag.NewFlagSet("hex decode", pflag.ExitOnError)
		var input string
		fs.StringVarP(&input, "input", "i", "", "hex file to decode")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if input == "" {
			return fmt.Errorf("hex decode requires --input")
		}
		text, err := hexio.DecodeFile(input)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	default:
		return fmt.Errorf("unknown hex subcommand %q", args[0])
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `stegimg — LSB image steganography

Commands:
  hide     Hide a text message in a carrier image
  extract  Extract a hidden message from an image
  info     Report image dimensions and capacity
  sample   Generate a gradient test carrier
  hex      Encode text to a hex file / decode a hex file

Run "stegimg <command> --help" for command flags.
`)
}
