// beatctl submits an audio clip to a BeatLens server and prints the
// breakdown. A clip comes from a file upload or from a simulated capture run
// through the recording session.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/ewilliams-labs/beatlens/internal/adapters/apiclient"
	"github.com/ewilliams-labs/beatlens/internal/audio"
	"github.com/ewilliams-labs/beatlens/internal/capture"
	"github.com/ewilliams-labs/beatlens/internal/core/domain"
)

var mimeByExt = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".flac": "audio/flac",
	".m4a":  "audio/x-m4a",
	".mp4":  "audio/mp4",
	".webm": "audio/webm",
}

func main() {
	server := flag.String("server", "http://localhost:8080", "BeatLens server base URL")
	file := flag.String("file", "", "audio file to upload")
	record := flag.String("record", "", "audio file to play through the capture pipeline instead of uploading directly")
	mimeType := flag.String("type", "", "override the declared media type")
	flag.Parse()

	if (*file == "") == (*record == "") {
		log.Fatal("FATAL: exactly one of -file or -record is required")
	}

	var sub domain.AudioSubmission
	var err error
	if *file != "" {
		sub, err = fromFile(*file, *mimeType)
	} else {
		sub, err = fromCapture(*record, *mimeType)
	}
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	client := apiclient.NewClient(*server, nil)
	res, err := client.Submit(context.Background(), sub)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	printResult(res)
}

func fromFile(path, declaredType string) (domain.AudioSubmission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.AudioSubmission{}, err
	}

	mt := declaredType
	if mt == "" {
		mt = mimeByExt[strings.ToLower(filepath.Ext(path))]
	}
	return audio.Accept(filepath.Base(path), mt, data)
}

// fromCapture runs the clip through the recording session: chunked capture,
// WAV transcode, raw fallback when the encoding cannot be decoded locally.
func fromCapture(path, declaredType string) (domain.AudioSubmission, error) {
	mt := declaredType
	if mt == "" {
		mt = mimeByExt[strings.ToLower(filepath.Ext(path))]
	}

	device := &capture.FileDevice{Path: path, Encoding: mt}
	session := capture.NewSession(device, audio.StandardDecoder{})
	if err := session.Start(context.Background()); err != nil {
		return domain.AudioSubmission{}, err
	}

	rec, err := session.Stop()
	if err != nil {
		return domain.AudioSubmission{}, err
	}
	if rec.Fallback {
		log.Printf("WARN: WAV conversion unavailable (%s); submitting native encoding", rec.FallbackReason)
	}

	return audio.Accept(rec.FileName, rec.MimeType, rec.Data)
}

func printResult(res domain.AnalysisResult) {
	fmt.Printf("BPM: %d\n\n", res.BPM)

	fmt.Println("Styles:")
	for _, s := range res.Styles {
		fmt.Printf("  %3d%%  %-20s %s\n", s.Percentage, s.Name, s.Description)
	}

	fmt.Println("\nElements:")
	for _, e := range res.Elements {
		icon := e.Icon
		if !domain.KnownIcon(icon) {
			icon = "music"
		}
		fmt.Printf("  [%s] %s: %s\n", icon, e.Name, e.Description)
	}

	fmt.Printf("\nTags: %s\n", strings.Join(res.Tags, ", "))
	fmt.Printf("Search: %s\n", res.SearchKeywords)
	fmt.Printf("\n%s\n", res.Summary)
}
