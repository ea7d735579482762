package analyzer

import (
	"fmt"
	"log"

	"github.com/ludo-technologies/pyblocks/internal/parser"
)

// CFGBuilder splits statement sequences into basic blocks and records which
// blocks are connected. A builder may be reused; every Build starts with
// fresh identifiers and classes.
type CFGBuilder struct {
	classifier *NodeClassifier

	// maxDepth limits nesting of compound statements; 0 means unlimited
	maxDepth int

	// logger for tracing (optional)
	logger *log.Logger

	// per-build state
	extractor *BlockExtractor
	classes   *EquivalenceClasses[int]
}

// NewCFGBuilder creates a CFG builder using the default node classification
func NewCFGBuilder() *CFGBuilder {
	return &CFGBuilder{
		classifier: NewNodeClassifier(),
	}
}

// WithClassifier replaces the node classification
func (b *CFGBuilder) WithClassifier(classifier *NodeClassifier) *CFGBuilder {
	if classifier != nil {
		b.classifier = classifier
	}
	return b
}

// SetMaxDepth sets the maximum nesting of compound statements
func (b *CFGBuilder) SetMaxDepth(depth int) {
	b.maxDepth = depth
}

// SetLogger sets an optional logger for tracing
func (b *CFGBuilder) SetLogger(logger *log.Logger) {
	b.logger = logger
}

func (b *CFGBuilder) logf(format string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Printf("CFGBuilder: "+format, args...)
	}
}

// Build partitions nodes into basic blocks and links them
func (b *CFGBuilder) Build(nodes []*parser.Node) (*CFG, error) {
	b.extractor = NewBlockExtractor(b.classifier)
	b.classes = NewEquivalenceClasses[int]()

	blocks, err := b.build(nodes, 0)
	if err != nil {
		return nil, err
	}
	return newCFG(nodes, blocks, b.classes), nil
}

func (b *CFGBuilder) build(nodes []*parser.Node, depth int) ([]*BasicBlock, error) {
	if b.maxDepth > 0 && depth > b.maxDepth {
		return nil, fmt.Errorf("%w: limit is %d", ErrNestingTooDeep, b.maxDepth)
	}

	head, rest, err := b.extractor.ExtractFirst(nodes)
	if err != nil {
		return nil, err
	}

	var result []*BasicBlock
	if !head.IsEmpty() {
		if err := b.classes.Add(head.ID); err != nil {
			return nil, err
		}
		result = append(result, head)
		b.logf("block %d: %d statements", head.ID, len(head.Body))
	}

	if len(rest) == 0 {
		return result, nil
	}

	entrance := rest[0]
	var nested []*BasicBlock
	for _, seq := range b.classifier.ChildSequences(entrance) {
		blocks, err := b.build(seq, depth+1)
		if err != nil {
			return nil, err
		}
		nested = append(nested, blocks...)
	}

	unnested, err := b.build(rest[1:], depth)
	if err != nil {
		return nil, err
	}

	if err := b.link(head, entrance, nested, unnested); err != nil {
		return nil, err
	}

	result = append(result, nested...)
	return append(result, unnested...), nil
}

// link records the transitions around a compound statement: into each of
// its branches, out of each branch to the continuation, and forward along
// try/except/finally.
func (b *CFGBuilder) link(head *BasicBlock, entrance *parser.Node, nested, unnested []*BasicBlock) error {
	chain := b.classifier.IsExceptionHandling(entrance.Type)

	for i, block := range nested {
		if err := b.connect(head.ID, block.ID); err != nil {
			return err
		}
		if len(unnested) > 0 {
			if err := b.connect(unnested[0].ID, block.ID); err != nil {
				return err
			}
		}
		if !chain {
			continue
		}
		for _, later := range nested[i+1:] {
			if err := b.connect(block.ID, later.ID); err != nil {
				return err
			}
		}
	}

	if len(nested) > 0 {
		return b.connect(head.ID, nested[0].ID)
	}
	return nil
}

// connect links src to dst. src is untracked when the block before a
// compound statement was empty.
func (b *CFGBuilder) connect(src, dst int) error {
	merged, err := b.classes.Connect(src, dst)
	if err != nil {
		return err
	}
	if merged {
		b.logf("connect %d -> %d (%d classes)", src, dst, b.classes.Count())
	}
	return nil
}
