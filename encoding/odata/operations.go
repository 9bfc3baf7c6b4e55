package odata

import (
	"strings"

	"github.com/neuronlabs/neuron-odata/errors"
)

// writeOperations writes the 'operations' grouped by their metadata. The operations sharing the same metadata are
// written as an array.
func (w *Writer) writeOperations(operations []*Operation, b metadataBuilder) error {
	if len(operations) == 0 {
		return nil
	}
	var (
		order  []string
		groups = map[string][]*Operation{}
	)
	for _, op := range operations {
		if op == nil {
			continue
		}
		if op.Metadata == "" {
			return errors.WrapDet(ErrInvalidItem, "operation: empty operation metadata")
		}
		key := operationName(op.Metadata)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], op)
	}

	for _, key := range order {
		group := groups[key]
		if err := w.name(key); err != nil {
			return err
		}
		if len(group) > 1 {
			if err := w.startArray(); err != nil {
				return err
			}
		}
		for _, op := range group {
			if err := w.writeOperation(key, op, b); err != nil {
				return err
			}
		}
		if len(group) > 1 {
			if err := w.endArray(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeOperation(key string, op *Operation, b metadataBuilder) error {
	if err := w.startObject(); err != nil {
		return err
	}
	title := w.metadataValue(op.Title, func() string {
		return b.operationTitle(key)
	})
	if title != "" {
		if err := w.annotation("title", title); err != nil {
			return err
		}
	}
	target := w.metadataValue(op.Target, func() string {
		return b.operationTarget(key)
	})
	if target != "" {
		if err := w.annotation("target", target); err != nil {
			return err
		}
	}
	return w.endObject()
}

// operationName gets the operation name written into the payload i.e. '#NS.Approve' for the
// metadata 'http://host/service/$metadata#NS.Approve'.
func operationName(metadata string) string {
	if i := strings.IndexByte(metadata, '#'); i >= 0 {
		return metadata[i:]
	}
	return "#" + metadata
}
