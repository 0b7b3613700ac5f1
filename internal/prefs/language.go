package prefs

import (
	"context"
	"strings"
	"sync"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"go.uber.org/zap"
)

// Language is the persisted display language. Detection and manual choice
// write the same slot; the last write wins.
type Language struct {
	mu    sync.Mutex
	p     persister
	value locale.Locale
}

func NewLanguage(store kv.Store, log *logger.Logger) *Language {
	return &Language{p: newPersister(store, log), value: locale.Default}
}

// Load reads the persisted value. Unknown values are ignored and the
// current value (Default unless set) is kept.
func (l *Language) Load(ctx context.Context) locale.Locale {
	raw, err := l.p.store.Get(ctx, KeyLanguage)
	if err != nil {
		if !kv.IsNotFound(err) {
			l.p.log.Debug("read failed", zap.String("key", KeyLanguage), zap.Error(err))
		}
		return l.Get()
	}

	v := locale.Locale(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	if !v.Valid() {
		l.p.log.Debug("unknown language ignored", zap.String("value", string(raw)))
		return l.Get()
	}

	l.mu.Lock()
	l.value = v
	l.mu.Unlock()
	return v
}

// Set stores v. Unsupported values are rejected and reported as false.
func (l *Language) Set(ctx context.Context, v locale.Locale) bool {
	if !v.Valid() {
		return false
	}
	l.mu.Lock()
	l.value = v
	l.mu.Unlock()

	if err := l.p.store.Set(ctx, KeyLanguage, []byte(v)); err != nil {
		l.p.log.Debug("write failed", zap.String("key", KeyLanguage), zap.Error(err))
	}
	return true
}

// Detect classifies text, stores the result and returns it.
func (l *Language) Detect(ctx context.Context, text string) locale.Locale {
	v := locale.Detect(text)
	l.Set(ctx, v)
	return v
}

func (l *Language) Get() locale.Locale {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}
