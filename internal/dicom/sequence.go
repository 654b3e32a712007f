package dicom

// decodeSequence decodes an SQ value field: a run of items, each of which
// is itself a dataset encoded with the parent's transfer syntax. A defined
// length bounds the whole run; an undefined length runs until the sequence
// delimitation tag.
//
// Sequences are where real-world files are sloppiest, so failures here are
// contained: a malformed or truncated item records a warning on the parent
// dataset and terminates the sequence early, keeping the items decoded so
// far. The reader is left positioned after the sequence (or at the point
// of damage) so the parent element loop can continue.
func decodeSequence(r *reader, ds *Dataset, length uint32) Sequence {
	var items Sequence

	undefined := length == UndefinedLength
	end := len(r.buf)
	if !undefined {
		if err := r.need(int(length)); err != nil {
			ds.warnf("sequence length %d at offset %d exceeds buffer, skipping", length, r.pos)
			r.pos = len(r.buf)
			return items
		}
		end = r.pos + int(length)
	}

	for {
		if !undefined && r.pos >= end {
			break
		}

		itemStart := r.pos
		itemTag, err := r.tag()
		if err != nil {
			ds.warnf("sequence truncated at offset %d", itemStart)
			break
		}
		if itemTag == tagSequenceDelimiter {
			if _, err := r.uint32(); err != nil {
				ds.warnf("sequence delimiter at offset %d is missing its length", itemStart)
			}
			break
		}
		if itemTag != tagItem {
			ds.warnf("expected item tag in sequence at offset %d, got %s", itemStart, itemTag)
			r.pos = itemStart
			break
		}

		itemLen, err := r.uint32()
		if err != nil {
			ds.warnf("sequence item at offset %d is missing its length", itemStart)
			break
		}

		item := NewDataset()
		item.TransferSyntaxUID = ds.TransferSyntaxUID
		item.LittleEndian = ds.LittleEndian
		item.ImplicitVR = ds.ImplicitVR

		if itemLen == UndefinedLength {
			if !decodeUndefinedItem(r, ds, item, itemStart) {
				items = append(items, item)
				break
			}
		} else {
			if err := r.need(int(itemLen)); err != nil {
				ds.warnf("item length %d at offset %d exceeds buffer, keeping partial item", itemLen, itemStart)
				decodePartialItem(r, ds, item, len(r.buf))
				items = append(items, item)
				break
			}
			decodePartialItem(r, ds, item, r.pos+int(itemLen))
		}

		items = append(items, item)
	}

	if !undefined && r.pos < end {
		r.pos = end
	}
	return items
}

// decodeUndefinedItem decodes item elements until the item delimitation
// tag. It reports false when the item was cut short, which terminates the
// enclosing sequence.
func decodeUndefinedItem(r *reader, ds, item *Dataset, itemStart int) bool {
	for {
		next, err := r.peekTag()
		if err != nil {
			ds.warnf("unterminated sequence item at offset %d", itemStart)
			return false
		}
		if next == tagItemDelimiter {
			r.pos += 4
			if _, err := r.uint32(); err != nil {
				ds.warnf("item delimiter at offset %d is missing its length", r.pos-4)
				return false
			}
			return true
		}
		elem, err := decodeElement(r, item)
		if err != nil {
			ds.warnf("malformed element in sequence item at offset %d: %v", itemStart, err)
			return false
		}
		item.add(elem)
	}
}

// decodePartialItem decodes item elements up to itemEnd. Damage inside the
// item stops at the damage point with a warning and leaves the reader at
// itemEnd so the sequence can continue with the next item.
func decodePartialItem(r *reader, ds, item *Dataset, itemEnd int) {
	for r.pos < itemEnd {
		elem, err := decodeElement(r, item)
		if err != nil {
			ds.warnf("malformed element in sequence item: %v", err)
			break
		}
		item.add(elem)
	}
	if r.pos < itemEnd {
		r.pos = itemEnd
	}
}
