package logger

// Noop discards everything. Used as a default and in tests.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) WithField(string, any) Logger     { return n }
func (n *Noop) WithFields(map[string]any) Logger { return n }
func (n *Noop) WithError(error) Logger           { return n }

func (n *Noop) Debug(...any) {}
func (n *Noop) Info(...any)  {}
func (n *Noop) Warn(...any)  {}
func (n *Noop) Error(...any) {}
func (n *Noop) Fatal(...any) {}

func (n *Noop) Debugf(string, ...any) {}
func (n *Noop) Infof(string, ...any)  {}
func (n *Noop) Warnf(string, ...any)  {}
func (n *Noop) Errorf(string, ...any) {}
func (n *Noop) Fatalf(string, ...any) {}

func (n *Noop) SetLevel(Level)  {}
func (n *Noop) GetLevel() Level { return Disabled }
