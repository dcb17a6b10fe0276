package loader

// queuedSet — имена файлов, уже опубликованных в очередь.
type queuedSet map[string]struct{}

func (s queuedSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s queuedSet) add(name string) {
	s[name] = struct{}{}
}

// retain забывает имена, которых больше нет в папке.
func (s queuedSet) retain(present map[string]struct{}) {
	for name := range s {
		if _, ok := present[name]; !ok {
			delete(s, name)
		}
	}
}
