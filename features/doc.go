/*Package features stores sequence features (annotations with a type, a
  description, a group and an optional score) on top of the nclist index.

  Features come in three kinds, and each Store keeps them apart:
    - positional features span [Begin, End] and go into an nclist.Store;
    - contact features (disulfide bonds) only touch their two end points, so
      they're kept in two sorted slices instead of the interval index;
    - non-positional features have Begin == End == 0 and are kept in a plain
      list.

  SequenceFeatures holds one Store per feature type, for a single sequence.
  ReadGFF loads a GFF3 file into one SequenceFeatures per sequence.
*/
package features
