package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/visiq/internal/imagegen"
	"github.com/abhisek/visiq/internal/quiz"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Play a quiz in plain line mode",
	Long: `Run a quiz session on stdin/stdout without the full-screen UI.

Questions and options are printed as text. With --image-dir each question's
visual is written to disk so it can be opened in an image viewer.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("image-dir", "", "Directory to write question images to")
}

func runPreview(cmd *cobra.Command, args []string) error {
	imageDir, _ := cmd.Flags().GetString("image-dir")
	if imageDir != "" {
		if err := os.MkdirAll(imageDir, 0o755); err != nil {
			return fmt.Errorf("create image dir: %w", err)
		}
	}

	d, err := newDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	m := d.machine

	fmt.Fprintf(out, "Preparing your challenge (%d questions)...\n\n", m.Total())
	quiz.Drive(ctx, m, m.Start())

	for m.State() == quiz.StatePlaying {
		cur := m.Current()
		fmt.Fprintf(out, "── Question %d/%d ──\n", m.Index()+1, m.Total())
		if imageDir != "" {
			path, err := writeImage(imageDir, m.Index()+1, cur.ImageURL)
			if err != nil {
				fmt.Fprintf(out, "(could not save visual: %v)\n", err)
			} else {
				fmt.Fprintf(out, "Visual: %s\n", path)
			}
		}
		fmt.Fprintln(out, cur.Question)
		for i, opt := range cur.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		option, ok := readOption(in, out, cur.Options)
		if !ok {
			fmt.Fprintln(out, "\n(input closed)")
			return nil
		}

		correct, err := m.SubmitAnswer(option)
		if err != nil {
			return err
		}
		if correct {
			fmt.Fprintln(out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(out, "\033[31m✗ Not quite.\033[0m Answer: %s\n", cur.CorrectAnswer)
		}
		fmt.Fprintln(out)

		next, err := m.Advance()
		if err != nil {
			return err
		}
		if next != nil {
			fmt.Fprintln(out, "Generating visual...")
			quiz.Drive(ctx, m, next)
		}
	}

	switch m.State() {
	case quiz.StateFinished:
		r := m.Result()
		fmt.Fprintln(out, "── Quiz Complete! ──")
		fmt.Fprintf(out, "You scored %d out of %d (%d%%)\n", r.Score, r.Total, r.Percent)
		fmt.Fprintln(out, r.Message())
		return nil
	case quiz.StateErrored:
		fmt.Fprintln(out, "An Error Occurred")
		return m.Err()
	}
	return nil
}

// readOption prompts until the player enters an option number or the exact
// option text. It returns false when input ends.
func readOption(in *bufio.Scanner, out io.Writer, options []string) (string, bool) {
	for {
		fmt.Fprintf(out, "\nYour answer (1-%d): ", len(options))
		if !in.Scan() {
			return "", false
		}
		answer := strings.TrimSpace(in.Text())
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
			return options[n-1], true
		}
		for _, opt := range options {
			if answer == opt {
				return opt, true
			}
		}
		fmt.Fprintf(out, "Please enter a number between 1 and %d.\n", len(options))
	}
}

// writeImage decodes a data URL and writes it as q<NN>.<ext> in dir.
func writeImage(dir string, n int, dataURL string) (string, error) {
	img, err := imagegen.ParseDataURL(dataURL)
	if err != nil {
		return "", err
	}
	ext := ".png"
	if img.MIMEType == "image/jpeg" {
		ext = ".jpg"
	}
	path := filepath.Join(dir, fmt.Sprintf("q%02d%s", n, ext))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
