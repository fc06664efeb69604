/*
Package edds reads and writes Arma/DayZ EDDS (Enfusion DDS) textures as
ytdtex records.

EDDS stores a DDS header followed by a block table and block bodies per mip
level (smallest to largest). Blocks are either uncompressed (COPY) or LZ4
chunk streams with a rolling 64 KiB dictionary. ReadRecord inflates only the
largest level and returns it with the codec FourCC as the format tag, which is
exactly what ytdtex.Synthesize expects.
*/
package edds
