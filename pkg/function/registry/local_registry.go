package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Eventual-Inc/pdfagent/pkg/function"
	"github.com/Eventual-Inc/pdfagent/pkg/invocation"
)

type registeredFunction struct {
	id      function.FunctionID
	def     function.FunctionDefinition
	adapter *invocation.Adapter
}

// LocalFunctionRegistry keeps functions in process memory. Registration
// normally happens once at start; lookups are safe from any goroutine.
type LocalFunctionRegistry struct {
	mu          sync.RWMutex
	functionMap map[string]registeredFunction
	log         *logrus.Entry
}

func NewFunctionRegistry(log *logrus.Entry) *LocalFunctionRegistry {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &LocalFunctionRegistry{
		functionMap: map[string]registeredFunction{},
		log:         log,
	}
}

func (fr *LocalFunctionRegistry) RegisterFunction(ctx context.Context, def function.FunctionDefinition) (function.FunctionID, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return "", ErrInvalidName
	}
	adapter, err := invocation.New(invocation.Config{Name: name, Handler: def.Handler, Log: fr.log})
	if err != nil {
		return "", fmt.Errorf("registering %q: %w", name, err)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()
	if _, ok := fr.functionMap[name]; ok {
		return "", fmt.Errorf("%w: %s", ErrFunctionExists, name)
	}
	fid := uuid.New().String()
	def.Name = name
	fr.functionMap[name] = registeredFunction{id: fid, def: def, adapter: adapter}
	fr.log.WithFields(logrus.Fields{"function": name, "function_id": fid}).Info("registered function")
	return fid, nil
}

func (fr *LocalFunctionRegistry) Lookup(name string) (*invocation.Adapter, error) {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	fn, ok := fr.functionMap[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, name)
	}
	return fn.adapter, nil
}

func (fr *LocalFunctionRegistry) InvokeFunction(ctx context.Context, name string, req invocation.Request) (invocation.Response, error) {
	adapter, err := fr.Lookup(name)
	if err != nil {
		return nil, err
	}
	return adapter.Handle(ctx, req)
}

// Functions returns the registered definitions sorted by name.
func (fr *LocalFunctionRegistry) Functions() []function.FunctionDefinition {
	fr.mu.RLock()
	defer fr.mu.RUnlock()
	defs := make([]function.FunctionDefinition, 0, len(fr.functionMap))
	for _, fn := range fr.functionMap {
		defs = append(defs, fn.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}
