// Package firmware loads fullflash images from disk.
//
// An Image keeps the raw bytes and a content digest. The digest
// identifies the image in the result cache, so two copies of the same
// dump share cached results regardless of their path.
package firmware
