package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
)

// FrameWriter consumes rendered frames in presentation order. It is the
// seam to the export/encode collaborator: the core renders, the writer
// encodes or stores.
type FrameWriter interface {
	WriteFrame(index int, frame *image.RGBA) error
	Close() error
}

// PNGSequenceWriter stores frames as numbered PNG files in a directory.
type PNGSequenceWriter struct {
	Dir    string
	Prefix string
}

func (w *PNGSequenceWriter) WriteFrame(index int, frame *image.RGBA) error {
	prefix := w.Prefix
	if prefix == "" {
		prefix = "frame"
	}
	path := filepath.Join(w.Dir, fmt.Sprintf("%s_%05d.png", prefix, index))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, frame)
}

func (w *PNGSequenceWriter) Close() error { return nil }

// FFmpegWriter pipes raw RGBA frames into an ffmpeg process over stdin, so
// no intermediate frame files touch the disk. Frames must arrive in order.
type FFmpegWriter struct {
	cmd   *exec.Cmd
	stdin interface {
		Write([]byte) (int, error)
		Close() error
	}
	log    bytes.Buffer
	width  int
	height int
}

// NewFFmpegWriter starts an ffmpeg encode for the given geometry. Encoder
// is the video codec name (empty means libx264); quality is the CRF value
// (zero means the codec default).
func NewFFmpegWriter(outputPath string, width, height, fps int, encoder string, quality int) (*FFmpegWriter, error) {
	if encoder == "" {
		encoder = "libx264"
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", width, height),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-c:v", encoder,
	}
	if quality > 0 {
		args = append(args, "-crf", fmt.Sprintf("%d", quality))
	}
	args = append(args, outputPath)

	w := &FFmpegWriter{
		cmd:    exec.Command("ffmpeg", args...),
		width:  width,
		height: height,
	}
	w.cmd.Stdout = &w.log
	w.cmd.Stderr = &w.log

	stdin, err := w.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdin: %w", err)
	}
	w.stdin = stdin

	if err := w.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}
	return w, nil
}

// WriteFrame streams one frame's pixels. The frame must match the writer's
// geometry and use the standard stride.
func (w *FFmpegWriter) WriteFrame(_ int, frame *image.RGBA) error {
	b := frame.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("frame size %dx%d does not match encoder %dx%d", b.Dx(), b.Dy(), w.width, w.height)
	}
	if frame.Stride != w.width*4 {
		return fmt.Errorf("unexpected frame stride %d", frame.Stride)
	}
	_, err := w.stdin.Write(frame.Pix)
	return err
}

// Close finishes the stream and waits for ffmpeg to exit.
func (w *FFmpegWriter) Close() error {
	w.stdin.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg: %w\nlog: %s", err, w.log.String())
	}
	return nil
}
