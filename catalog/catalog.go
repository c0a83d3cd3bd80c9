// Package catalog binds table/column/index metadata for the planner and
// resolver. It is read-only during statement execution; DDL is serialized
// externally by the caller (see engine.Engine), matching spec.md §5's
// "Catalog metadata is read-only during execution; DDL is serialized
// externally."
package catalog

import (
	deadlock "github.com/sasha-s/go-deadlock"
)

// Catalog is the in-memory table/column/index directory. The teacher
// (ryogrid-SamehadaDB) persists this to a reserved catalog page; this
// core treats persistence as the external collaborator named in spec.md
// §6 and keeps only the resolved, in-memory view planning needs.
type Catalog struct {
	mu     deadlock.RWMutex
	tables map[string]*TableMeta
}

func NewCatalog() *Catalog {
	return &Catalog{tables: make(map[string]*TableMeta)}
}

// GetTable implements the §6 contract get_table(name) -> TableMeta.
func (c *Catalog) GetTable(name string) (*TableMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[name]
	return t, ok
}

func (c *Catalog) TableNames() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.tables))
	for n := range c.tables {
		out = append(out, n)
	}
	return out
}

// CreateTable registers a new table. Returns false if the name is taken.
func (c *Catalog) CreateTable(name string, columns []*ColumnMeta) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tables[name]; exists {
		return false
	}
	var off uint32
	for _, col := range columns {
		col.TableName = name
		col.Offset = off
		off += col.Length
	}
	c.tables[name] = NewTableMeta(name, columns)
	return true
}

// DropTable removes a table and every index defined on it. Returns false
// if the table did not exist.
func (c *Catalog) DropTable(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.tables[name]; !exists {
		return false
	}
	delete(c.tables, name)
	return true
}

// CreateIndex registers an index on table over cols. Returns false if the
// table does not exist or any column is unknown.
func (c *Catalog) CreateIndex(table string, cols []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[table]
	if !ok {
		return false
	}
	for _, col := range cols {
		if t.GetColumn(col) == nil {
			return false
		}
	}
	t.addIndex(NewIndexDescriptor(table, cols))
	return true
}

func (c *Catalog) DropIndex(table string, cols []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[table]
	if !ok || t.IndexOn(cols) == nil {
		return false
	}
	t.removeIndex(cols)
	return true
}

// HasIndex implements the §6 contract has_index(table, cols) -> bool.
func (c *Catalog) HasIndex(table string, cols []string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tables[table]
	if !ok {
		return false
	}
	return t.IndexOn(cols) != nil
}
