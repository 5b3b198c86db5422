// SPDX-License-Identifier: MPL-2.0

package syntree

// Walk visits node and all of its descendants depth-first, calling fn on each
// node before its children. The first error returned by fn stops the walk and
// is returned unchanged.
func Walk(node Node, fn func(Node) error) error {
	if node.IsZero() {
		return nil
	}
	if err := fn(node); err != nil {
		return err
	}
	for i := range node.ChildCount() {
		if err := Walk(node.Child(i), fn); err != nil {
			return err
		}
	}
	return nil
}
