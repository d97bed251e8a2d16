/*Package interval defines the closed-interval contract shared by the
  nclist and features packages, together with the two ordering policies and
  the bounded binary search the index is built on.
  Intervals are closed: [Begin(), End()] includes both endpoints, and
  Begin() <= End() is assumed rather than checked.
  It also contains helpers for reading intervals out of BED files and parsing
  samtools-style region strings.
*/
package interval
