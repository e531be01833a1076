// Package artifact loads the precomputed catalog and similarity matrix.
//
// Supported inputs:
//   - a catalog JSON file, either a records array or the columnar export
//     produced by pandas DataFrame.to_dict()
//   - a NumPy .npy file holding a square float32/float64 matrix
//   - a SQLite bundle containing both tables (see WriteBundle)
//
// Any source may be an http(s) URL; remote files are downloaded once into the
// cache directory under a file lock and written atomically. Every failure is
// fatal for the caller and wrapped with services.ErrArtifact, including a
// catalog size that does not match the matrix dimension.
package artifact
