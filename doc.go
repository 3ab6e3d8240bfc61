/*
Package filewhisperer contains the functions which are needed to recursively
dissect a file into the tree of everything it contains: archive members,
document embeddings, images inside PDFs, OCR text, decoded barcodes, URLs
found in text and HTML, email bodies and attachments.

Dissector is the engine which concentrates the high level logic. It digests
one node at a time: classify, hash, run the flavor's analyzers and
extractors, attach the children and recurse. The following example digests
an in-memory payload without a server around it:

	logger := filewhisperer.NewLogger()
	registry := filewhisperer.DefaultRegistry(logger)
	engine := filewhisperer.NewDissector(registry, nil, logger)
	root := filewhisperer.NewRoot(
		&filewhisperer.File{Name: "report.zip", Content: blob}, nil, 0, 0)
	if err := engine.Digest(root); err != nil {
		log.Fatal(err)
	}
	// root.Children now holds one fully dissected node per archive member.

The production service in cmd/filewhisperer wraps the same engine with a
bounded EnginePool, sibling batching through per-kind worker pools, and the
unary Whispering gRPC method which serializes the tree breadth-first.
*/
package filewhisperer
