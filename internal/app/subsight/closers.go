package subsight

// closeStack освобождает ресурсы в порядке, обратном открытию.
type closeStack []func()

func (c *closeStack) push(f func()) {
	*c = append(*c, f)
}

func (c *closeStack) closeAll() {
	for i := len(*c) - 1; i >= 0; i-- {
		(*c)[i]()
	}
	*c = nil
}
