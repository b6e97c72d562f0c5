package proforma

// PriceLookup resolves a product's unit price.
type PriceLookup interface {
	Price(name string) (float64, bool)
}

// Annotator returns the standard INFO text that follows a product, if any.
type Annotator interface {
	AnnotationFor(name string) (string, bool)
}

// Document is the ordered row list. Index arguments outside the current range
// are ignored by every mutator.
type Document struct {
	rows   []Row
	prices PriceLookup
	notes  Annotator
}

// NewDocument returns an empty document. prices and notes may be nil.
func NewDocument(prices PriceLookup, notes Annotator) *Document {
	return &Document{prices: prices, notes: notes}
}

// Count returns the number of rows.
func (d *Document) Count() int {
	return len(d.rows)
}

func (d *Document) inRange(index int) bool {
	return index >= 0 && index < len(d.rows)
}

// Add appends a copy of row.
func (d *Document) Add(row Row) {
	d.rows = append(d.rows, row.normalized())
}

// Insert places a copy of row at index, shifting later rows down. index may
// equal Count to append.
func (d *Document) Insert(index int, row Row) {
	if index < 0 || index > len(d.rows) {
		return
	}
	d.rows = append(d.rows, Row{})
	copy(d.rows[index+1:], d.rows[index:])
	d.rows[index] = row.normalized()
}

// Remove deletes the row at index.
func (d *Document) Remove(index int) {
	if !d.inRange(index) {
		return
	}
	d.rows = append(d.rows[:index], d.rows[index+1:]...)
}

// Get returns a copy of the row at index.
func (d *Document) Get(index int) (Row, bool) {
	if !d.inRange(index) {
		return Row{}, false
	}
	return d.rows[index], true
}

// Set replaces the row at index with a copy of row.
func (d *Document) Set(index int, row Row) {
	if !d.inRange(index) {
		return
	}
	d.rows[index] = row.normalized()
}

// Rows returns a copy of every row in order.
func (d *Document) Rows() []Row {
	return append([]Row(nil), d.rows...)
}

// Replace swaps the whole row list for copies of rows.
func (d *Document) Replace(rows []Row) {
	d.rows = d.rows[:0]
	for _, row := range rows {
		d.Add(row)
	}
}

// Clear removes every row.
func (d *Document) Clear() {
	d.rows = nil
}

// SetProduct writes name into a product row and, when the catalog knows it,
// its unit price. Quantity is kept. If the product carries a standard
// annotation and the next row is not already INFO, an INFO row is inserted
// after it.
func (d *Document) SetProduct(index int, name string) {
	if !d.isProduct(index) {
		return
	}
	row := &d.rows[index]
	row.Cols[ColName] = name
	if d.prices != nil {
		if price, ok := d.prices.Price(name); ok {
			row.Cols[ColPrice] = FormatNumber(price)
		}
	}
	row.recalc()

	if d.notes == nil {
		return
	}
	text, ok := d.notes.AnnotationFor(name)
	if !ok || text == "" {
		return
	}
	if next, ok := d.Get(index + 1); ok && next.Kind == KindInfo {
		return
	}
	d.Insert(index+1, Info(text, ""))
}

// SetQuantity writes the quantity column and recomputes the total.
func (d *Document) SetQuantity(index int, quantity string) {
	d.setNumeric(index, ColQuantity, quantity)
}

// SetPrice writes the unit price column and recomputes the total.
func (d *Document) SetPrice(index int, price string) {
	d.setNumeric(index, ColPrice, price)
}

func (d *Document) setNumeric(index, col int, value string) {
	if !d.isProduct(index) {
		return
	}
	row := &d.rows[index]
	row.Cols[col] = value
	row.recalc()
}

func (d *Document) isProduct(index int) bool {
	return d.inRange(index) && d.rows[index].Kind == KindProduct
}
