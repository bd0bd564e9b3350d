package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	ErrProductNotFound    = errors.New("produto não encontrado")
	ErrCategoryNotFound   = errors.New("categoria não encontrada")
	ErrParentNotFound     = errors.New("categoria pai não encontrada")
	ErrRootCategoryHidden = errors.New("a categoria Todos não pode ser ocultada")
	ErrBannerNotFound     = errors.New("banner não encontrado")
	ErrBannerLink         = errors.New("o link do banner não corresponde ao tipo escolhido")
	ErrEmptyCart          = errors.New("carrinho vazio")
	ErrWhatsAppMissing    = errors.New("número de WhatsApp da loja não configurado")
	ErrVariantRequired    = errors.New("informe a variação para produtos com cor e tamanho")
	ErrVariantUnexpected  = errors.New("produto sem variações não aceita variant_id")
	ErrStockChange        = errors.New("informe stock ou delta")
)
