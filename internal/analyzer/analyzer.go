package analyzer

import (
	"context"
	"os"

	"go.uber.org/zap"
)

type Analyzer struct {
	logger      *zap.Logger
	integerIDs  bool
	conventions []DomainConvention
}

type Option func(*Analyzer)

// WithLogger sets the logger used for debug output and parse warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithIntegerIDs types id-like and count-like path parameters as integers.
func WithIntegerIDs(enabled bool) Option {
	return func(a *Analyzer) {
		a.integerIDs = enabled
	}
}

// WithConventions appends domain conventions after the built-in ones.
func WithConventions(conventions ...DomainConvention) Option {
	return func(a *Analyzer) {
		a.conventions = append(a.conventions, conventions...)
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:      zap.NewNop(),
		conventions: append([]DomainConvention(nil), defaultConventions...),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeFile reads path and analyzes its contents.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*Analysis, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.Analyze(ctx, src)
}

// Analyze collects the routes registered in src. When src cannot be parsed
// the returned Analysis is empty and the error wraps ErrParse.
func (a *Analyzer) Analyze(ctx context.Context, src []byte) (*Analysis, error) {
	analysis := &Analysis{Routes: []Route{}}

	file, err := a.parseSource(ctx, src)
	if err != nil {
		a.logger.Warn("source could not be parsed, no routes collected", zap.Error(err))
		return analysis, err
	}
	defer file.Close()

	analysis.Routes = a.collectRoutes(file)
	return analysis, nil
}

// analyzeHandler runs every heuristic over the handler text. Each heuristic
// only inserts what is not already present, so the order below is the
// precedence order.
func (a *Analyzer) analyzeHandler(text, reqName, resName string) HandlerInfo {
	info := HandlerInfo{
		RequestName:     reqName,
		ResponseName:    resName,
		QueryParameters: []Parameter{},
	}
	if text == "" {
		info.addResponse("200", primitive(TypeObject))
		return info
	}

	a.extractQueryAccess(text, &info)
	a.extractQueryDestructuring(text, &info)

	info.setRequestBody(a.extractBodyAccess(text, reqName))
	info.setRequestBody(a.extractBodyDestructuring(text, reqName))

	a.detectNotFound(text, &info)
	a.detectResponses(text, &info)
	a.detectErrorResponses(text, &info)

	if len(info.Responses) == 0 {
		info.addResponse("200", primitive(TypeObject))
	}
	return info
}
