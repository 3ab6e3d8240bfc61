package extractors

import (
	"bytes"
	"strings"

	"github.com/Jeffail/tunny"
	"github.com/ledongthuc/pdf"
	"github.com/otiai10/gosseract/v2"
	"github.com/pkg/errors"
	"github.com/yeka/zip"

	"github.com/whisperd/filewhisperer/internal/core"
)

// BatchWorkers wires one worker factory per batched kind. Each worker owns
// its heavy engine instance and initializes it at most once; the pool keeps
// the instance exclusive for the duration of a task.
func BatchWorkers(logger core.Logger) map[core.BatchKind]core.WorkerFactory {
	if logger == nil {
		logger = core.NewLogger()
	}
	return map[core.BatchKind]core.WorkerFactory{
		core.BatchOCR: func() tunny.Worker {
			return &ocrWorker{l: logger}
		},
		core.BatchWord: func() tunny.Worker {
			return &wordWorker{l: logger}
		},
		core.BatchPDF: func() tunny.Worker {
			return &pdfWorker{l: logger}
		},
	}
}

// ocrWorker recognizes text from image bytes. The native client lives as
// long as the worker does.
type ocrWorker struct {
	l      core.Logger
	client *gosseract.Client
}

func (worker *ocrWorker) Process(payload interface{}) interface{} {
	task, ok := payload.(core.BatchTask)
	if !ok {
		return core.BatchResult{Err: errors.New("unexpected payload type")}
	}
	if worker.client == nil {
		worker.client = gosseract.NewClient()
	}
	if err := worker.client.SetImageFromBytes(task.Content); err != nil {
		return core.BatchResult{Err: errors.Wrap(err, "cannot load image")}
	}
	text, err := worker.client.Text()
	if err != nil {
		return core.BatchResult{Err: errors.Wrap(err, "recognition failed")}
	}
	return core.BatchResult{Text: normalizeOCRText(text)}
}

func (worker *ocrWorker) BlockUntilReady() {}
func (worker *ocrWorker) Interrupt()       {}
func (worker *ocrWorker) Terminate() {
	if worker.client != nil {
		worker.client.Close()
		worker.client = nil
	}
}

// wordWorker extracts the capped paragraph text from a DOC or DOCX payload.
// Encrypted documents fail here and fall back to the full per-node
// extractor, which has the password candidates.
type wordWorker struct {
	l core.Logger
}

func (worker *wordWorker) Process(payload interface{}) interface{} {
	task, ok := payload.(core.BatchTask)
	if !ok {
		return core.BatchResult{Err: errors.New("unexpected payload type")}
	}
	content := task.Content
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil && bytes.HasPrefix(content, cfbMagic) {
		// A compound file here is a legacy DOC; rewrite it as DOCX first.
		if content, err = convertToDocx(content); err == nil {
			reader, err = zip.NewReader(bytes.NewReader(content), int64(len(content)))
		}
	}
	if err != nil {
		return core.BatchResult{Err: errors.Wrap(err, "cannot open document")}
	}
	paragraphs, err := docxParagraphs(reader, task.WordMaxPages*paragraphsPerPage)
	if err != nil {
		return core.BatchResult{Err: err}
	}
	return core.BatchResult{Text: strings.Join(paragraphs, "\n")}
}

func (worker *wordWorker) BlockUntilReady() {}
func (worker *wordWorker) Interrupt()       {}
func (worker *wordWorker) Terminate()       {}

// pdfWorker extracts the capped page text from a PDF payload. Encrypted
// documents fail here and fall back to the full per-node extractor.
type pdfWorker struct {
	l core.Logger
}

func (worker *pdfWorker) Process(payload interface{}) (result interface{}) {
	defer func() {
		if r := recover(); r != nil {
			result = core.BatchResult{
				Err: errors.Errorf("pdf parsing panicked: %v", r)}
		}
	}()
	task, ok := payload.(core.BatchTask)
	if !ok {
		return core.BatchResult{Err: errors.New("unexpected payload type")}
	}
	reader, err := pdf.NewReader(
		bytes.NewReader(task.Content), int64(len(task.Content)))
	if err != nil {
		return core.BatchResult{Err: errors.Wrap(err, "cannot open pdf")}
	}
	limit := reader.NumPage()
	if task.PDFMaxPages < limit {
		limit = task.PDFMaxPages
	}
	var text strings.Builder
	for number := 1; number <= limit; number++ {
		page := reader.Page(number)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			worker.l.Warnf("pdf batch page %d text failed: %v", number, err)
			continue
		}
		text.WriteString(pageText)
	}
	return core.BatchResult{Text: text.String()}
}

func (worker *pdfWorker) BlockUntilReady() {}
func (worker *pdfWorker) Interrupt()       {}
func (worker *pdfWorker) Terminate()       {}
