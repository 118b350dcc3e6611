//go:build ignore

// This script generates LOAS test streams for the LATM parser and session.
// Run with: go run testdata/generate.go
//
// Requirements: FFmpeg must be installed and available in PATH.
//
// Generated test data structure:
//   testdata/generated/
//   ├── aac_lc/           # AAC-LC in LOAS/LATM
//   │   ├── 44100_16_stereo_128k/
//   │   │   ├── sine1k.loas   # StreamMuxConfig every 20 frames (ffmpeg default)
//   │   │   ├── sine1k_smc1.loas  # StreamMuxConfig in every frame
//   │   │   ├── sine1k.raw    # reference s16le PCM decoded by ffmpeg
//   │   │   └── sine1k.json
//   │   └── ...
//   ├── he_aac/           # HE-AAC (SBR) in LOAS, needs libfdk_aac
//   │   └── ...
//   └── splice/           # streams whose configuration changes mid-stream
//       └── ...

package main

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// TestConfig describes a test configuration
type TestConfig struct {
	SampleRate  int    `json:"sample_rate"`
	NumChannels int    `json:"num_channels"` // 1=mono, 2=stereo
	Profile     string `json:"profile"`      // "aac_lc", "he_aac"
	Bitrate     int    `json:"bitrate"`      // Target bitrate in kbps
	SMCInterval int    `json:"smc_interval"` // frames between StreamMuxConfigs
}

// AAC-LC configurations
var aacLCConfigs = []TestConfig{
	{44100, 1, "aac_lc", 64, 20},
	{44100, 2, "aac_lc", 128, 20},
	{48000, 1, "aac_lc", 64, 20},
	{48000, 2, "aac_lc", 128, 20},
	{22050, 2, "aac_lc", 64, 20}, // implicit SBR doubling in the ASC
	{16000, 1, "aac_lc", 24, 20},
}

// HE-AAC configurations (SBR)
var heAACConfigs = []TestConfig{
	{44100, 2, "he_aac", 48, 20},
	{48000, 2, "he_aac", 64, 20},
}

var audioTypes = []string{"silence", "sine1k", "sweep", "noise"}

func main() {
	if err := checkFFmpeg(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "Please install FFmpeg: https://ffmpeg.org/download.html\n")
		os.Exit(1)
	}

	baseDir := filepath.Join("testdata", "generated")
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Generating AAC-LC LOAS data ===")
	generateProfileTests(baseDir, "aac_lc", aacLCConfigs)

	if hasEncoder("libfdk_aac") {
		fmt.Println("\n=== Generating HE-AAC LOAS data ===")
		generateProfileTests(baseDir, "he_aac", heAACConfigs)
	} else {
		fmt.Fprintln(os.Stderr, "Warning: libfdk_aac not available, skipping HE-AAC")
	}

	fmt.Println("\n=== Generating spliced LOAS data ===")
	if err := generateSplice(baseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating splice: %v\n", err)
	}

	fmt.Println("\nDone!")
}

func generateProfileTests(baseDir, profile string, configs []TestConfig) {
	for _, cfg := range configs {
		dir := filepath.Join(baseDir, profile, dirName(cfg))
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating directory %s: %v\n", dir, err)
			continue
		}

		for _, audioType := range audioTypes {
			if err := generateTestCase(dir, audioType, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating %s/%s: %v\n", dir, audioType, err)
			} else {
				fmt.Printf("Generated %s/%s\n", dir, audioType)
			}
		}
	}
}

func dirName(cfg TestConfig) string {
	return fmt.Sprintf("%d_16_%s_%dk", cfg.SampleRate, channelName(cfg.NumChannels), cfg.Bitrate)
}

func checkFFmpeg() error {
	cmd := exec.Command("ffmpeg", "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	return nil
}

func channelName(n int) string {
	if n == 1 {
		return "mono"
	}
	return "stereo"
}

func generateTestCase(dir, audioType string, cfg TestConfig) error {
	wavPath := filepath.Join(dir, audioType+".wav")
	loasPath := filepath.Join(dir, audioType+".loas")
	smc1Path := filepath.Join(dir, audioType+"_smc1.loas")
	rawPath := filepath.Join(dir, audioType+".raw")
	jsonPath := filepath.Join(dir, audioType+".json")

	if fileExists(loasPath) && fileExists(smc1Path) && fileExists(rawPath) && fileExists(jsonPath) {
		return nil
	}

	samples := cfg.SampleRate // 1 second
	if err := generateWAV(wavPath, audioType, cfg, samples); err != nil {
		return fmt.Errorf("generating WAV: %w", err)
	}
	defer os.Remove(wavPath)

	if err := encodeLOAS(wavPath, loasPath, cfg, cfg.SMCInterval); err != nil {
		return fmt.Errorf("encoding LOAS: %w", err)
	}
	if err := encodeLOAS(wavPath, smc1Path, cfg, 1); err != nil {
		return fmt.Errorf("encoding LOAS with smc-interval 1: %w", err)
	}

	if err := decodeToRaw(loasPath, rawPath); err != nil {
		return fmt.Errorf("decoding to raw: %w", err)
	}

	if err := writeConfig(jsonPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// generateSplice concatenates two LOAS streams with different
// AudioSpecificConfigs, as seen when a broadcast switches programs.
func generateSplice(baseDir string) error {
	dir := filepath.Join(baseDir, "splice")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	out := filepath.Join(dir, "44100_to_48000.loas")
	if fileExists(out) {
		return nil
	}

	var spliced []byte
	for _, cfg := range []TestConfig{
		{44100, 2, "aac_lc", 128, 20},
		{48000, 1, "aac_lc", 64, 20},
	} {
		wav := filepath.Join(dir, fmt.Sprintf("part_%d.wav", cfg.SampleRate))
		loas := filepath.Join(dir, fmt.Sprintf("part_%d.loas", cfg.SampleRate))
		if err := generateWAV(wav, "sine1k", cfg, cfg.SampleRate); err != nil {
			return err
		}
		if err := encodeLOAS(wav, loas, cfg, cfg.SMCInterval); err != nil {
			return err
		}
		data, err := os.ReadFile(loas)
		if err != nil {
			return err
		}
		spliced = append(spliced, data...)
		os.Remove(wav)
		os.Remove(loas)
	}

	if err := os.WriteFile(out, spliced, 0644); err != nil {
		return err
	}
	fmt.Printf("Generated %s\n", out)
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func generateWAV(path, audioType string, cfg TestConfig, samples int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dataSize := samples * cfg.NumChannels * 2
	writeWAVHeader(f, cfg, dataSize)

	for i := 0; i < samples; i++ {
		for ch := 0; ch < cfg.NumChannels; ch++ {
			var sample float64
			t := float64(i) / float64(cfg.SampleRate)

			switch audioType {
			case "silence":
				sample = 0

			case "sine1k":
				sample = 0.8 * math.Sin(2*math.Pi*1000*t)

			case "sweep":
				// Logarithmic sweep from 20Hz to Nyquist/2
				maxFreq := float64(cfg.SampleRate) / 4
				progress := float64(i) / float64(samples)
				freq := 20 * math.Pow(maxFreq/20, progress)
				sample = 0.7 * math.Sin(2*math.Pi*freq*t)

			case "noise":
				// Pseudo-random noise using LCG (deterministic)
				seed := uint32(i*cfg.NumChannels + ch + 12345)
				seed = seed*1103515245 + 12345
				sample = float64(int32(seed)) / float64(math.MaxInt32) * 0.5
			}

			if cfg.NumChannels == 2 && ch == 1 {
				sample *= 0.95
			}

			sample = max(-1.0, min(1.0, sample))
			binary.Write(f, binary.LittleEndian, int16(sample*32767))
		}
	}

	return nil
}

func writeWAVHeader(f *os.File, cfg TestConfig, dataSize int) {
	blockAlign := cfg.NumChannels * 2
	byteRate := cfg.SampleRate * blockAlign

	// RIFF header
	f.Write([]byte("RIFF"))
	binary.Write(f, binary.LittleEndian, uint32(36+dataSize))
	f.Write([]byte("WAVE"))

	// fmt chunk
	f.Write([]byte("fmt "))
	binary.Write(f, binary.LittleEndian, uint32(16)) // chunk size
	binary.Write(f, binary.LittleEndian, uint16(1))  // audio format (PCM)
	binary.Write(f, binary.LittleEndian, uint16(cfg.NumChannels))
	binary.Write(f, binary.LittleEndian, uint32(cfg.SampleRate))
	binary.Write(f, binary.LittleEndian, uint32(byteRate))
	binary.Write(f, binary.LittleEndian, uint16(blockAlign))
	binary.Write(f, binary.LittleEndian, uint16(16))

	// data chunk
	f.Write([]byte("data"))
	binary.Write(f, binary.LittleEndian, uint32(dataSize))
}

func encodeLOAS(wavPath, loasPath string, cfg TestConfig, smcInterval int) error {
	encoder := "aac"
	profileArgs := []string{"-profile:a", "aac_low"}
	if cfg.Profile == "he_aac" {
		encoder = "libfdk_aac"
		profileArgs = []string{"-profile:a", "aac_he"}
	}

	args := []string{"-y", "-i", wavPath, "-c:a", encoder}
	args = append(args, profileArgs...)
	args = append(args,
		"-b:a", fmt.Sprintf("%dk", cfg.Bitrate),
		"-smc-interval", fmt.Sprint(smcInterval),
		"-f", "latm", loasPath)

	cmd := exec.Command("ffmpeg", args...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func hasEncoder(encoder string) bool {
	output, err := exec.Command("ffmpeg", "-encoders").Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(output), encoder)
}

func decodeToRaw(loasPath, rawPath string) error {
	cmd := exec.Command("ffmpeg", "-y", "-f", "loas", "-i", loasPath,
		"-f", "s16le", "-acodec", "pcm_s16le", rawPath)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func writeConfig(path string, cfg TestConfig) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
