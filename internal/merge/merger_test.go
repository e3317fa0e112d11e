package merge_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"cardpress/internal/merge"
	"cardpress/internal/render"
)

// minimalPDF builds a valid single-page PDF with a correct xref table.
func minimalPDF(t *testing.T) []byte {
	t.Helper()

	objects := []string{
		"<</Type/Catalog/Pages 2 0 R>>",
		"<</Type/Pages/Kids[3 0 R]/Count 1>>",
		"<</Type/Page/Parent 2 0 R/MediaBox[0 0 612 792]/Resources<<>>>>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")

	offsets := make([]int, 0, len(objects))
	for i, body := range objects {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<</Size %d/Root 1 0 R>>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefOffset)

	return buf.Bytes()
}

func TestMergeEmptyInputRejected(t *testing.T) {
	merger := merge.New(nil)
	if _, err := merger.Merge(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty artifact list")
	}
}

func TestMergeSingleArtifactPassthrough(t *testing.T) {
	merger := merge.New(nil)
	artifact := render.Artifact{Data: []byte("opaque"), Pages: 7}

	got, err := merger.Merge(context.Background(), []render.Artifact{artifact})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got.Pages != 7 {
		t.Fatalf("page count changed: %d", got.Pages)
	}
	if !bytes.Equal(got.Data, artifact.Data) {
		t.Fatal("single artifact must pass through unchanged")
	}
}

func TestMergeObservesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	merger := merge.New(nil)
	_, err := merger.Merge(ctx, []render.Artifact{{Pages: 1}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestMergeSumsPages(t *testing.T) {
	doc := minimalPDF(t)
	pages, err := render.PageCount(doc)
	if err != nil {
		t.Fatalf("PageCount on fixture: %v", err)
	}
	if pages != 1 {
		t.Fatalf("fixture should be one page, got %d", pages)
	}

	merger := merge.New(nil)
	artifacts := []render.Artifact{
		{Data: doc, Pages: 1},
		{Data: doc, Pages: 1},
		{Data: doc, Pages: 1},
	}
	got, err := merger.Merge(context.Background(), artifacts)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if got.Pages != 3 {
		t.Fatalf("merged pages: got %d want 3", got.Pages)
	}
	if len(got.Data) == 0 {
		t.Fatal("merged document is empty")
	}
}
