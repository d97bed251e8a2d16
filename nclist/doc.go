// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*Package nclist implements an in-memory index over a multiset of closed
  intervals, answering "which stored intervals overlap [from, to]" in
  O(log n + k).

  The index is an adapted nested containment list, as described in

    Nested Containment List (NCList): a new algorithm for accelerating
    interval query of genome alignment and interval databases
    - Alexander V. Alekseyenko, Christopher J. Lee
    https://doi.org/10.1093/bioinformatics/btl647

  List is the tree itself: a sorted list of sibling nodes, none of which
  properly contains another, where each node may own a nested List of the
  intervals it properly contains.  Store is what most callers want: it keeps
  intervals that don't nest in a flat sorted "spine", and only falls back to
  a List for the ones that do.  That keeps the common case of mostly
  non-overlapping annotations as cheap as a sorted slice.

  Neither structure has a canonical shape; the tree built from a given
  multiset depends on insertion order.  Only the invariants checked by
  IsValid are guaranteed.
*/
package nclist
