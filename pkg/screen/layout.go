package screen

// LayoutKind discriminates the node types of a screen layout tree.
type LayoutKind string

const (
	// LayoutRow groups input fields on one horizontal line.
	LayoutRow LayoutKind = "row"
	// LayoutTable renders a column-projected view of a query data key.
	LayoutTable LayoutKind = "table"
	// LayoutModal is a named sub-form opened by an action's TargetModal.
	LayoutModal LayoutKind = "modal"
)

// TableColumn projects one record field into a table column.
type TableColumn struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// LayoutNode is one element of the ordered, static layout description. The
// tree is fully determined by the screen definition: rendering the same
// definition twice yields structurally identical nodes.
type LayoutNode struct {
	Kind LayoutKind `json:"kind"`
	// Name identifies modals; empty for rows and tables.
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	// Fields carries the input descriptors of rows and modals.
	Fields []FieldDescriptor `json:"fields,omitempty"`
	// DataKey names the query output entry backing a table.
	DataKey string        `json:"data_key,omitempty"`
	Columns []TableColumn `json:"columns,omitempty"`
	// EmptyText is shown in place of a table with no rows, so empty states
	// render guidance instead of a blank region.
	EmptyText string `json:"empty_text,omitempty"`
}

// Row builds a horizontal field group.
func Row(fields ...FieldDescriptor) LayoutNode {
	return LayoutNode{Kind: LayoutRow, Fields: fields}
}

// Table builds a tabular projection of the query output entry named dataKey.
func Table(dataKey, title string, columns ...TableColumn) LayoutNode {
	return LayoutNode{Kind: LayoutTable, DataKey: dataKey, Title: title, Columns: columns}
}

// Modal builds a named sub-form referenced by action descriptors.
func Modal(name, title string, fields ...FieldDescriptor) LayoutNode {
	return LayoutNode{Kind: LayoutModal, Name: name, Title: title, Fields: fields}
}

// WithEmptyText sets the empty-state text of a table node.
func (n LayoutNode) WithEmptyText(text string) LayoutNode {
	n.EmptyText = text
	return n
}

func cloneLayout(nodes []LayoutNode) []LayoutNode {
	out := make([]LayoutNode, len(nodes))
	copy(out, nodes)
	for i := range out {
		out[i].Fields = append([]FieldDescriptor(nil), nodes[i].Fields...)
		out[i].Columns = append([]TableColumn(nil), nodes[i].Columns...)
	}
	return out
}
