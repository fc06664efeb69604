/*
Package ytdtex turns texture records pulled out of game-asset archives into
standard DDS containers and decodes those containers into displayable rasters.

A Record carries the top-level mip of a block-compressed texture together with
its dimensions, mip count and the archive's format name. Synthesize wraps it in
a 128-byte DDS header, and Decode hands the container to a Decoder (BCnDecoder
by default) and maps the reported surface format to a PixelLayout.

Every record is converted independently. ConvertBatch runs many records over a
worker pool and keeps one bad texture from stopping the rest.
*/
package ytdtex
