// Package engine is a small line-matching search engine over a directory
// tree. It produces result batches on its own goroutine.
package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"findpane/internal/domain"
	"findpane/internal/ui/services/highlight"

	"github.com/samber/lo"
)

// ErrScanInProgress is returned by Start while a previous scan is still running
var ErrScanInProgress = errors.New("scan already in progress")

// Scanner searches the files under Root line by line
type Scanner struct {
	Root       string
	Extensions []string
	BatchSize  int
	MaxDepth   int

	mu         sync.Mutex
	isScanning bool
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewScanner creates a scanner rooted at root
func NewScanner(root string, extensions []string, batchSize int) *Scanner {
	return &Scanner{
		Root:       root,
		Extensions: extensions,
		BatchSize:  batchSize,
	}
}

// Start searches for term in the background, feeding sink until the tree is
// exhausted or ctx is cancelled. The sink is completed only when the scan
// ran to the end.
func (s *Scanner) Start(ctx context.Context, term *highlight.Context, sink Sink) error {
	if !term.Active() {
		return errors.New("empty search term")
	}
	matcher, err := term.Compile()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.isScanning {
		s.mu.Unlock()
		return ErrScanInProgress
	}
	s.isScanning = true

	scanCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			cancel()
			s.mu.Lock()
			s.isScanning = false
			s.cancelFunc = nil
			s.mu.Unlock()
		}()

		found, err := s.scan(scanCtx, matcher, sink)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Printf("engine: scan of %s stopped: %v", s.Root, err)
			}
			return
		}
		if err := sink.Complete(); err != nil {
			log.Printf("engine: complete after %d results: %v", found, err)
		}
	}()

	return nil
}

// Stop cancels a running scan and waits for it to finish
func (s *Scanner) Stop() {
	s.mu.Lock()
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Wait blocks until the running scan, if any, has finished
func (s *Scanner) Wait() {
	s.wg.Wait()
}

// Scanning reports whether a scan is running
func (s *Scanner) Scanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isScanning
}

func (s *Scanner) scan(ctx context.Context, m *highlight.Matcher, sink Sink) (int, error) {
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	maxDepth := s.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	found := 0
	batch := make([]domain.ResultEntry, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := sink.Send(batch); err != nil {
			return err
		}
		found += len(batch)
		batch = batch[:0]
		return nil
	}

	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			log.Printf("engine: error walking path %s: %v", path, err)
			return nil
		}

		rel, _ := filepath.Rel(s.Root, path)
		if d.IsDir() {
			if path == s.Root {
				return nil
			}
			if strings.Count(rel, string(filepath.Separator)) >= maxDepth ||
				strings.HasPrefix(d.Name(), ".") || lo.Contains(skipDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !lo.Contains(exts, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		if err := s.scanFile(path, filepath.ToSlash(rel), m, func(e domain.ResultEntry) error {
			batch = append(batch, e)
			if len(batch) >= batchSize {
				return flush()
			}
			return nil
		}); err != nil {
			return err
		}
		// hand over what the file produced so results show up per file
		return flush()
	})
	if err != nil {
		return found, err
	}
	if err := flush(); err != nil {
		return found, err
	}
	return found, nil
}

func (s *Scanner) scanFile(path, rel string, m *highlight.Matcher, emit func(domain.ResultEntry) error) error {
	f, err := os.Open(path)
	if err != nil {
		log.Printf("engine: %v", err)
		return nil
	}
	defer f.Close()

	kind := SyntaxFor(strings.ToLower(filepath.Ext(path)))
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		ranges := m.FindAll(line)
		if len(ranges) == 0 {
			continue
		}
		if err := emit(newEntry(path, rel, lineNo, ranges[0].Start+1, line, kind)); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		log.Printf("engine: reading %s: %v", path, err)
	}
	return nil
}

func newEntry(path, rel string, line, col int, text string, kind domain.SyntaxKind) domain.PositionedEntry {
	id := fmt.Sprintf("%s:%d", rel, line)
	return domain.PositionedEntry{
		Entry: domain.Entry{
			EntryID: id,
			Label:   id,
			Desc:    strings.TrimSpace(text),
			Kind:    kind,
			CodeRef: rel,
		},
		Pos: domain.Position{Path: path, Line: line, Column: col},
	}
}
